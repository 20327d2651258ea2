package post

import (
	"context"
	"errors"

	"github.com/mayankag3005/sides-services-sub000/internal/db"
	"github.com/mayankag3005/sides-services-sub000/internal/lifecycle"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("post not found")

type Service struct {
	db  db.Querier
	rec *lifecycle.Reconciler
}

func NewService(querier db.Querier, rec *lifecycle.Reconciler) *Service {
	return &Service{db: querier, rec: rec}
}

func (s *Service) Create(ctx context.Context, input Post) (Post, error) {
	input.ID = uuid.NewString()
	if input.Tags == nil {
		input.Tags = []string{}
	}
	input.InterestedUsers = []string{}
	input.ConfirmedUsers = []string{}

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, title, content, tags, interested_users, confirmed_users)
		VALUES ($1,$2,$3,$4,$5,'{}','{}')
		RETURNING created_at
	`, input.ID, input.UserID, input.Title, input.Content, input.Tags)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Post{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, title, content, tags, interested_users, confirmed_users, created_at
		FROM posts WHERE id = $1
	`, id)

	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Tags, &p.InterestedUsers, &p.ConfirmedUsers, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Post, error) {
	return s.list(ctx, `
		SELECT id, user_id, title, content, tags, interested_users, confirmed_users, created_at
		FROM posts WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *Service) ListByTag(ctx context.Context, tag string) ([]Post, error) {
	return s.list(ctx, `
		SELECT id, user_id, title, content, tags, interested_users, confirmed_users, created_at
		FROM posts WHERE $1 = ANY(tags)
		ORDER BY created_at DESC
	`, tag)
}

// Delete runs the reconciler over the post's engagement lists before the
// row is removed, so no user keeps a reminder for a dead post.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	s.rec.OnPostDeleted(ctx, lifecycle.PostRefs{
		ID:              p.ID,
		InterestedUsers: p.InterestedUsers,
		ConfirmedUsers:  p.ConfirmedUsers,
	})

	_, err = s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (s *Service) list(ctx context.Context, sql string, arg string) ([]Post, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Tags, &p.InterestedUsers, &p.ConfirmedUsers, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}
