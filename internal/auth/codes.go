package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const loginCodeTTL = 10 * time.Minute

var ErrCodeInvalid = errors.New("login code invalid or expired")

// IssueLoginCode stores a one-time login code for the email with a TTL.
// Delivery of the code (mail, SMS) is out of scope; the code is returned
// to the caller.
func (s *Service) IssueLoginCode(ctx context.Context, email string) (string, error) {
	if s.redis == nil {
		return "", errors.New("code store unavailable")
	}
	code := newLoginCode()
	if err := s.redis.Set(ctx, loginCodeKey(email), code, loginCodeTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// RedeemLoginCode validates and consumes a one-time code, then issues tokens.
func (s *Service) RedeemLoginCode(ctx context.Context, email, code string) (TokenResponse, error) {
	if s.redis == nil {
		return TokenResponse{}, errors.New("code store unavailable")
	}
	stored, err := s.redis.Get(ctx, loginCodeKey(email)).Result()
	if err == redis.Nil {
		return TokenResponse{}, ErrCodeInvalid
	}
	if err != nil {
		return TokenResponse{}, err
	}
	if stored != code {
		return TokenResponse{}, ErrCodeInvalid
	}
	_ = s.redis.Del(ctx, loginCodeKey(email)).Err()

	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, err
	}
	return s.GenerateTokens(ctx, user.ID, user.Role)
}

func newLoginCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func loginCodeKey(email string) string {
	return "logincode:" + strings.ToLower(email)
}
