package friendship

import (
	"context"
	"errors"
	"log"

	"github.com/mayankag3005/sides-services-sub000/internal/db"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfRequest      = errors.New("cannot befriend yourself")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrAlreadyRequested = errors.New("friend request already pending")
	ErrNotRequested     = errors.New("no pending friend request")
	ErrNotFriends       = errors.New("not friends")
)

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

// SendRequest records a pending request on both sides: the recipient id on
// the sender's outgoing list and the sender id on the recipient's incoming
// list. The two writes are independent single-row updates; when the second
// fails the first stands and the mismatch is repaired on later access.
func (s *Service) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return ErrSelfRequest
	}

	sender, found, err := s.loadRefs(ctx, from)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	recipient, found, err := s.loadRefs(ctx, to)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}

	if contains(sender.Friends, to) || contains(recipient.Friends, from) {
		return ErrAlreadyFriends
	}
	// A request pending in either direction short-circuits, so mutual
	// simultaneous requests collapse to a single pending relationship.
	if contains(sender.FriendsRequested, to) || contains(recipient.FriendRequests, from) {
		return ErrAlreadyRequested
	}
	if contains(sender.FriendRequests, to) || contains(recipient.FriendsRequested, from) {
		return ErrAlreadyRequested
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friends_requested = array_append(friends_requested, $2), updated_at = now()
		WHERE id = $1
	`, from, to); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friend_requests = array_append(friend_requests, $2), updated_at = now()
		WHERE id = $1
	`, to, from); err != nil {
		log.Printf("friendship: recipient-side write failed for %s<-%s: %v", to, from, err)
	}
	return nil
}

// AcceptRequest turns a pending request into a friendship. When the
// requester row no longer exists the stale pending entry is purged from
// the acceptor and the result reports StalePeerRemoved.
func (s *Service) AcceptRequest(ctx context.Context, requester, acceptor string) (AcceptResult, error) {
	acc, found, err := s.loadRefs(ctx, acceptor)
	if err != nil {
		return AcceptResult{}, err
	}
	if !found {
		return AcceptResult{}, ErrUserNotFound
	}

	if contains(acc.Friends, requester) {
		return AcceptResult{}, ErrAlreadyFriends
	}
	if !contains(acc.FriendRequests, requester) {
		return AcceptResult{}, ErrNotRequested
	}

	_, found, err = s.loadRefs(ctx, requester)
	if err != nil {
		return AcceptResult{}, err
	}
	if !found {
		if _, err := s.db.Exec(ctx, `
			UPDATE users SET friend_requests = array_remove(friend_requests, $2), updated_at = now()
			WHERE id = $1
		`, acceptor, requester); err != nil {
			return AcceptResult{}, err
		}
		return AcceptResult{StalePeerRemoved: true}, nil
	}

	// Both pending directions are cleared so a pair is never pending and
	// friends at the same time, even after a mutual-request window.
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET
			friend_requests = array_remove(friend_requests, $2),
			friends_requested = array_remove(friends_requested, $2),
			friends = array_append(friends, $2),
			updated_at = now()
		WHERE id = $1
	`, acceptor, requester); err != nil {
		return AcceptResult{}, err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET
			friends_requested = array_remove(friends_requested, $2),
			friend_requests = array_remove(friend_requests, $2),
			friends = array_append(friends, $2),
			updated_at = now()
		WHERE id = $1
	`, requester, acceptor); err != nil {
		log.Printf("friendship: requester-side accept write failed for %s<->%s: %v", requester, acceptor, err)
	}
	return AcceptResult{Accepted: true}, nil
}

// RejectRequest removes the mirrored pending pair. The sender having
// vanished is not an error; only its side is skipped.
func (s *Service) RejectRequest(ctx context.Context, from, to string) error {
	recipient, found, err := s.loadRefs(ctx, to)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	if !contains(recipient.FriendRequests, from) {
		return ErrNotRequested
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friend_requests = array_remove(friend_requests, $2), updated_at = now()
		WHERE id = $1
	`, to, from); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friends_requested = array_remove(friends_requested, $2), updated_at = now()
		WHERE id = $1
	`, from, to); err != nil {
		log.Printf("friendship: sender-side reject write failed for %s->%s: %v", from, to, err)
	}
	return nil
}

// RemoveFriend removes other from self's friends and, when other still
// exists, self from other's. Absent friendship signals ErrNotFriends
// without any writes.
func (s *Service) RemoveFriend(ctx context.Context, self, other string) error {
	me, found, err := s.loadRefs(ctx, self)
	if err != nil {
		return err
	}
	if !found {
		return ErrUserNotFound
	}
	if !contains(me.Friends, other) {
		return ErrNotFriends
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friends = array_remove(friends, $2), updated_at = now()
		WHERE id = $1
	`, self, other); err != nil {
		return err
	}
	// Zero rows affected means the peer is already gone; nothing to repair.
	if _, err := s.db.Exec(ctx, `
		UPDATE users SET friends = array_remove(friends, $2), updated_at = now()
		WHERE id = $1
	`, other, self); err != nil {
		log.Printf("friendship: peer-side remove write failed for %s<->%s: %v", other, self, err)
	}
	return nil
}

// Friends returns the friend list of a user.
func (s *Service) Friends(ctx context.Context, userID string) ([]string, error) {
	refs, found, err := s.loadRefs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return refs.Friends, nil
}

// PendingRequests returns incoming and outgoing pending request ids.
func (s *Service) PendingRequests(ctx context.Context, userID string) ([]string, []string, error) {
	refs, found, err := s.loadRefs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, ErrUserNotFound
	}
	return refs.FriendRequests, refs.FriendsRequested, nil
}

func (s *Service) loadRefs(ctx context.Context, id string) (userRefs, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT friends, friend_requests, friends_requested
		FROM users WHERE id = $1
	`, id)

	var refs userRefs
	err := row.Scan(&refs.Friends, &refs.FriendRequests, &refs.FriendsRequested)
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
