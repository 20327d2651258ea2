package lifecycle

import (
	"context"
	"log"

	"github.com/mayankag3005/sides-services-sub000/internal/db"
)

// UserRefs is the snapshot of a user's denormalized back-references,
// captured before the row is deleted.
type UserRefs struct {
	ID               string
	Friends          []string
	FriendRequests   []string
	FriendsRequested []string
	RequestedPosts   []string
	ReminderPosts    []string
}

// PostRefs is the snapshot of a post's engagement lists.
type PostRefs struct {
	ID              string
	InterestedUsers []string
	ConfirmedUsers  []string
}

// Reconciler repairs denormalized identifier lists when a root entity is
// deleted. The store enforces no referential integrity, so every mirror
// entry has to be walked and removed here. Each peer write is independent;
// failures are logged and the walk continues, since readers tolerate
// dangling ids by skipping them.
type Reconciler struct {
	db db.Querier
}

func NewReconciler(querier db.Querier) *Reconciler {
	return &Reconciler{db: querier}
}

// OnUserDeleted strips the user id out of every peer and post list the
// user appears in. Already-deleted peers affect zero rows and are skipped.
func (r *Reconciler) OnUserDeleted(ctx context.Context, refs UserRefs) {
	for _, peer := range refs.Friends {
		r.exec(ctx, `
			UPDATE users SET friends = array_remove(friends, $2), updated_at = now()
			WHERE id = $1
		`, peer, refs.ID)
	}
	// Incoming pending entries mirror the peer's outgoing list and vice versa.
	for _, peer := range refs.FriendRequests {
		r.exec(ctx, `
			UPDATE users SET friends_requested = array_remove(friends_requested, $2), updated_at = now()
			WHERE id = $1
		`, peer, refs.ID)
	}
	for _, peer := range refs.FriendsRequested {
		r.exec(ctx, `
			UPDATE users SET friend_requests = array_remove(friend_requests, $2), updated_at = now()
			WHERE id = $1
		`, peer, refs.ID)
	}
	for _, postID := range refs.ReminderPosts {
		r.exec(ctx, `
			UPDATE posts SET confirmed_users = array_remove(confirmed_users, $2)
			WHERE id = $1
		`, postID, refs.ID)
	}
	for _, postID := range refs.RequestedPosts {
		r.exec(ctx, `
			UPDATE posts SET interested_users = array_remove(interested_users, $2)
			WHERE id = $1
		`, postID, refs.ID)
	}
}

// OnPostDeleted strips the post id from every engaged user's lists.
func (r *Reconciler) OnPostDeleted(ctx context.Context, refs PostRefs) {
	for _, userID := range refs.ConfirmedUsers {
		r.exec(ctx, `
			UPDATE users SET reminder_posts = array_remove(reminder_posts, $2), updated_at = now()
			WHERE id = $1
		`, userID, refs.ID)
	}
	for _, userID := range refs.InterestedUsers {
		r.exec(ctx, `
			UPDATE users SET requested_posts = array_remove(requested_posts, $2), updated_at = now()
			WHERE id = $1
		`, userID, refs.ID)
	}
}

func (r *Reconciler) exec(ctx context.Context, sql, id, ref string) {
	if _, err := r.db.Exec(ctx, sql, id, ref); err != nil {
		log.Printf("lifecycle: reconcile write failed for %s (ref %s): %v", id, ref, err)
	}
}
