package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mayankag3005/sides-services-sub000/internal/lifecycle"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func userColumns() []string {
	return []string{"id", "email", "username", "full_name", "role", "friends", "friend_requests", "friends_requested", "requested_posts", "reminder_posts", "created_at", "updated_at"}
}

func expectGet(mock pgxmock.PgxPoolIface, id string, friends, incoming, outgoing, requested, reminders []string) {
	now := time.Now()
	mock.ExpectQuery(`SELECT id, email, username, full_name, role`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow(id, id+"@example.com", id, "Full Name", "user", friends, incoming, outgoing, requested, reminders, now, now))
}

func TestGetUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectGet(mock, "alice", []string{"bob"}, nil, nil, nil, nil)

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	u, err := svc.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.ID != "alice" || len(u.Friends) != 1 || u.Friends[0] != "bob" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetUserNotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, username, full_name, role`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM users\s+ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(userColumns()).
			AddRow("alice", "alice@example.com", "alice", "Alice", "user", []string{}, []string{}, []string{}, []string{}, []string{}, now, now).
			AddRow("bob", "bob@example.com", "bob", "Bob", "user", []string{}, []string{}, []string{}, []string{}, []string{}, now, now))

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].ID != "alice" || users[1].ID != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUpdateUser(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectGet(mock, "alice", nil, nil, nil, nil, nil)
	mock.ExpectExec(`UPDATE users SET username = \$2, full_name = \$3`).
		WithArgs("alice", "newname", "New Name").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	u, err := svc.Update(context.Background(), "alice", User{Username: "newname", FullName: "New Name"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Username != "newname" {
		t.Fatalf("expected patched username")
	}
}

func TestDeleteUserReconcilesBackReferences(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectGet(mock, "alice", []string{"bob"}, []string{"carol"}, nil, []string{"p1"}, []string{"p2"})
	mock.ExpectExec(`SET friends = array_remove`).
		WithArgs("bob", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET friends_requested = array_remove`).
		WithArgs("carol", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET confirmed_users = array_remove`).
		WithArgs("p2", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET interested_users = array_remove`).
		WithArgs("p1", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	if err := svc.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, username, full_name, role`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock, lifecycle.NewReconciler(mock))
	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
