package friendship

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func stubAuth(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", "user")
		return c.Next()
	}
}

func TestFriendshipHandlersSendAccept(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRefs(mock, "alice", nil, nil, nil)
	expectRefs(mock, "bob", nil, nil, nil)
	mock.ExpectExec(`array_append\(friends_requested`).
		WithArgs("alice", "bob").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`array_append\(friend_requests,`).
		WithArgs("bob", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(mock), stubAuth("alice"))

	body, _ := json.Marshal(FriendRequestBody{ToID: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("send request status: %v %v", resp.StatusCode, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFriendshipHandlersAccept(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRefs(mock, "bob", nil, []string{"alice"}, nil)
	expectRefs(mock, "alice", nil, nil, []string{"bob"})
	mock.ExpectExec(`friend_requests = array_remove\(friend_requests, \$2\),\s+friends_requested`).
		WithArgs("bob", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`friends_requested = array_remove\(friends_requested, \$2\),\s+friend_requests`).
		WithArgs("alice", "bob").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(mock), stubAuth("bob"))

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/alice/accept", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("accept status: %v %v", resp.StatusCode, err)
	}

	var result AcceptResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || !result.Accepted {
		t.Fatalf("unexpected accept body: %+v %v", result, err)
	}
}

func TestFriendshipHandlersConflictStatus(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRefs(mock, "alice", []string{"bob"}, nil, nil)
	expectRefs(mock, "bob", []string{"alice"}, nil, nil)

	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(mock), stubAuth("alice"))

	body, _ := json.Marshal(FriendRequestBody{ToID: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", resp.StatusCode)
	}
}

func TestFriendshipHandlersNotFoundStatus(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectMissing(mock, "ghost")

	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(mock), stubAuth("ghost"))

	body, _ := json.Marshal(FriendRequestBody{ToID: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", resp.StatusCode)
	}
}

func TestFriendshipHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(nil), stubAuth("alice"))

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}

func TestFriendshipHandlersRemoveAndLists(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	expectRefs(mock, "alice", []string{"bob"}, nil, nil)
	mock.ExpectExec(`friends = array_remove\(friends, \$2\)`).
		WithArgs("alice", "bob").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`friends = array_remove\(friends, \$2\)`).
		WithArgs("bob", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectRefs(mock, "alice", nil, []string{"carol"}, nil)

	app := fiber.New()
	RegisterRoutes(app.Group("/friends"), NewService(mock), stubAuth("alice"))

	req := httptest.NewRequest(http.MethodDelete, "/friends/bob", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove status: %v %v", resp.StatusCode, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/friends/requests", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("requests status: %v %v", resp.StatusCode, err)
	}
}
