package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func newAuthApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	return resp
}

func TestAuthHandlersRegister(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "alice@example.com", "alice", pgxmock.AnyArg(), "Alice", RoleUser).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	expectRefreshInsert(mock)

	app := newAuthApp(NewService("secret", mock, nil))
	resp := postJSON(t, app, "/auth/register", RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "password123",
		FullName: "Alice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v", resp.StatusCode)
	}
}

func TestAuthHandlersRegisterMissingFields(t *testing.T) {
	app := newAuthApp(NewService("secret", nil, nil))
	resp := postJSON(t, app, "/auth/register", RegisterRequest{Email: "a@b.c"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}

func TestAuthHandlersLogin(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	expectUserByEmail(mock, "alice@example.com", "u1", string(hash))
	expectRefreshInsert(mock)

	app := newAuthApp(NewService("secret", mock, nil))
	resp := postJSON(t, app, "/auth/login", LoginRequest{Email: "alice@example.com", Password: "password123"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %v", resp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil || tokens.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v %v", tokens, err)
	}
}

func TestAuthHandlersLoginWrongPassword(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	expectUserByEmail(mock, "alice@example.com", "u1", string(hash))

	app := newAuthApp(NewService("secret", mock, nil))
	resp := postJSON(t, app, "/auth/login", LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %v", resp.StatusCode)
	}
}

func TestAuthHandlersRefresh(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	svc := NewService("secret", mock, nil)
	token, err := svc.signToken("u1", RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	mock.ExpectQuery(`SELECT user_id, expires_at`).
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", time.Now().Add(time.Hour)))
	expectRefreshInsert(mock)

	app := newAuthApp(svc)
	resp := postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status: %v", resp.StatusCode)
	}
}

func TestAuthHandlersRefreshMissingToken(t *testing.T) {
	app := newAuthApp(NewService("secret", nil, nil))
	resp := postJSON(t, app, "/auth/refresh", RefreshRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}

func TestAuthHandlersCodeFlow(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	_, client := newTestRedis(t)

	svc := NewService("secret", mock, client)
	app := newAuthApp(svc)

	resp := postJSON(t, app, "/auth/code", LoginCodeRequest{Email: "alice@example.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("code status: %v", resp.StatusCode)
	}
	var issued struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&issued); err != nil || issued.Code == "" {
		t.Fatalf("unexpected code payload: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("x"), bcrypt.MinCost)
	expectUserByEmail(mock, "alice@example.com", "u1", string(hash))
	expectRefreshInsert(mock)

	resp = postJSON(t, app, "/auth/code/redeem", LoginCodeRequest{Email: "alice@example.com", Code: issued.Code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem status: %v", resp.StatusCode)
	}
}

func TestAuthHandlersCodeRedeemWrong(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	_, client := newTestRedis(t)

	app := newAuthApp(NewService("secret", mock, client))
	resp := postJSON(t, app, "/auth/code/redeem", LoginCodeRequest{Email: "alice@example.com", Code: "WRONG123"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %v", resp.StatusCode)
	}
}

func TestAuthHandlersVerify(t *testing.T) {
	svc := NewService("secret", nil, nil)
	token, err := svc.signToken("u1", RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	app := newAuthApp(svc)
	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %v %v", resp.StatusCode, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %v", resp.StatusCode)
	}
}
