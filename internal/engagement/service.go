package engagement

import (
	"context"
	"errors"
	"log"

	"github.com/mayankag3005/sides-services-sub000/internal/auth"
	"github.com/mayankag3005/sides-services-sub000/internal/db"

	"github.com/jackc/pgx/v5"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrOwnPost           = errors.New("owners cannot request their own post")
	ErrNotAllowed        = errors.New("actor is not the post owner or an admin")
	ErrAlreadyInterested = errors.New("interest already requested")
	ErrAlreadyConfirmed  = errors.New("user already confirmed")
	ErrNotRequested      = errors.New("no pending interest request")
	ErrNotConfirmed      = errors.New("user is not confirmed")
)

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

// RequestInterest moves the (post, user) pair from NONE to INTERESTED:
// the user id joins interested_users(post) and the post id joins
// requested_posts(user). Both writes are independent single-row updates.
func (s *Service) RequestInterest(ctx context.Context, postID, userID string) error {
	post, found, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	if post.OwnerID == userID {
		return ErrOwnPost
	}
	if contains(post.InterestedUsers, userID) {
		return ErrAlreadyInterested
	}
	if contains(post.ConfirmedUsers, userID) {
		return ErrAlreadyConfirmed
	}
	_, found, err = s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE posts SET interested_users = array_append(interested_users, $2)
		WHERE id = $1
	`, postID, userID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET requested_posts = array_append(requested_posts, $2), updated_at = now()
		WHERE id = $1
	`, userID, postID); err != nil {
		log.Printf("engagement: user-side interest write failed for %s on %s: %v", userID, postID, err)
	}
	return nil
}

// AcceptInterest moves the pair from INTERESTED to CONFIRMED. Confirmation
// is idempotent: a re-entrant accept skips the confirmed-side append but
// still clears the interested side.
func (s *Service) AcceptInterest(ctx context.Context, postID, userID string, actor auth.Principal) error {
	post, found, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	if actor.UserID != post.OwnerID && !actor.IsAdmin() {
		return ErrNotAllowed
	}
	if !contains(post.InterestedUsers, userID) {
		return ErrNotRequested
	}

	user, found, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		// The interested entry points at a deleted user; purge it so the
		// list self-heals instead of accumulating dangling ids.
		if _, err := s.db.Exec(ctx, `
			UPDATE posts SET interested_users = array_remove(interested_users, $2)
			WHERE id = $1
		`, postID, userID); err != nil {
			return err
		}
		return ErrUserNotFound
	}

	if contains(post.ConfirmedUsers, userID) {
		if _, err := s.db.Exec(ctx, `
			UPDATE posts SET interested_users = array_remove(interested_users, $2)
			WHERE id = $1
		`, postID, userID); err != nil {
			return err
		}
	} else {
		if _, err := s.db.Exec(ctx, `
			UPDATE posts SET
				interested_users = array_remove(interested_users, $2),
				confirmed_users = array_append(confirmed_users, $2)
			WHERE id = $1
		`, postID, userID); err != nil {
			return err
		}
	}

	if contains(user.ReminderPosts, postID) {
		if _, err := s.db.Exec(ctx, `
			UPDATE users SET requested_posts = array_remove(requested_posts, $2), updated_at = now()
			WHERE id = $1
		`, userID, postID); err != nil {
			log.Printf("engagement: user-side accept write failed for %s on %s: %v", userID, postID, err)
		}
		return nil
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET
			requested_posts = array_remove(requested_posts, $2),
			reminder_posts = array_append(reminder_posts, $2),
			updated_at = now()
		WHERE id = $1
	`, userID, postID); err != nil {
		log.Printf("engagement: user-side accept write failed for %s on %s: %v", userID, postID, err)
	}
	return nil
}

// RejectInterest clears the interested side only; confirmed and reminder
// state is never touched.
func (s *Service) RejectInterest(ctx context.Context, postID, userID string, actor auth.Principal) error {
	post, found, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	if actor.UserID != post.OwnerID && !actor.IsAdmin() {
		return ErrNotAllowed
	}
	if !contains(post.InterestedUsers, userID) {
		return ErrNotRequested
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE posts SET interested_users = array_remove(interested_users, $2)
		WHERE id = $1
	`, postID, userID); err != nil {
		return err
	}
	// Zero rows means the user is already gone; nothing to repair there.
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET requested_posts = array_remove(requested_posts, $2), updated_at = now()
		WHERE id = $1
	`, userID, postID); err != nil {
		log.Printf("engagement: user-side reject write failed for %s on %s: %v", userID, postID, err)
	}
	return nil
}

// RemoveConfirmed drops a confirmed attendee from both sides.
func (s *Service) RemoveConfirmed(ctx context.Context, postID, userID string, actor auth.Principal) error {
	post, found, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	if actor.UserID != post.OwnerID && !actor.IsAdmin() {
		return ErrNotAllowed
	}
	if !contains(post.ConfirmedUsers, userID) {
		return ErrNotConfirmed
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE posts SET confirmed_users = array_remove(confirmed_users, $2)
		WHERE id = $1
	`, postID, userID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET reminder_posts = array_remove(reminder_posts, $2), updated_at = now()
		WHERE id = $1
	`, userID, postID); err != nil {
		log.Printf("engagement: user-side confirmed-remove write failed for %s on %s: %v", userID, postID, err)
	}
	return nil
}

func (s *Service) loadPost(ctx context.Context, id string) (postRefs, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, interested_users, confirmed_users
		FROM posts WHERE id = $1
	`, id)

	var refs postRefs
	err := row.Scan(&refs.OwnerID, &refs.InterestedUsers, &refs.ConfirmedUsers)
	if errors.Is(err, pgx.ErrNoRows) {
		return postRefs{}, false, nil
	}
	if err != nil {
		return postRefs{}, false, err
	}
	return refs, true, nil
}

func (s *Service) loadUser(ctx context.Context, id string) (userRefs, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT requested_posts, reminder_posts
		FROM users WHERE id = $1
	`, id)

	var refs userRefs
	err := row.Scan(&refs.RequestedPosts, &refs.ReminderPosts)
	if errors.Is(err, pgx.ErrNoRows) {
		return userRefs{}, false, nil
	}
	if err != nil {
		return userRefs{}, false, err
	}
	return refs, true, nil
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
