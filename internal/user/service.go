package user

import (
	"context"
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/db"
	"github.com/mayankag3005/sides-services-sub000/internal/lifecycle"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("user not found")

type Service struct {
	db  db.Querier
	rec *lifecycle.Reconciler
}

func NewService(querier db.Querier, rec *lifecycle.Reconciler) *Service {
	return &Service{db: querier, rec: rec}
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, full_name, role, friends, friend_requests, friends_requested, requested_posts, reminder_posts, created_at, updated_at
		FROM users WHERE id = $1
	`, id)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.Role,
		&u.Friends, &u.FriendRequests, &u.FriendsRequested,
		&u.RequestedPosts, &u.ReminderPosts, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, username, full_name, role, friends, friend_requests, friends_requested, requested_posts, reminder_posts, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.Role,
			&u.Friends, &u.FriendRequests, &u.FriendsRequested,
			&u.RequestedPosts, &u.ReminderPosts, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) Update(ctx context.Context, id string, patch User) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Username != "" {
		u.Username = patch.Username
	}
	if patch.FullName != "" {
		u.FullName = patch.FullName
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users SET username = $2, full_name = $3, updated_at = now()
		WHERE id = $1
	`, u.ID, u.Username, u.FullName)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete runs the reconciler over the user's back-references before the
// row is removed, so no peer or post is left pointing at a dead id.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	s.rec.OnUserDeleted(ctx, lifecycle.UserRefs{
		ID:               u.ID,
		Friends:          u.Friends,
		FriendRequests:   u.FriendRequests,
		FriendsRequested: u.FriendsRequested,
		RequestedPosts:   u.RequestedPosts,
		ReminderPosts:    u.ReminderPosts,
	})

	_, err = s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
