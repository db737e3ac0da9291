package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neurobridge-be/internal/entity"
	"neurobridge-be/internal/repository/contract"
	"neurobridge-be/internal/repository/specification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrIdentityNotFound = errors.New("token identity no longer exists")
)

type ITokenService interface {
	// Validate verifies signature and expiry against the shared secret and
	// resolves the user_id claim. Called exactly once per connection; a token
	// revoked afterwards stays honored for that connection's lifetime.
	Validate(ctx context.Context, tokenStr string) (*entity.User, error)

	// Issue signs a token for a user. Production tokens come from the account
	// service (same secret); this exists for dev tooling and tests.
	Issue(user *entity.User) (string, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	users  contract.UserRepository
}

func NewTokenService(secret string, ttl time.Duration, users contract.UserRepository) ITokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
	}
}

func (s *tokenService) Validate(ctx context.Context, tokenStr string) (*entity.User, error) {
	if tokenStr == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrTokenMalformed
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := s.users.FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrIdentityNotFound
	}
	return user, nil
}

func (s *tokenService) Issue(user *entity.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}
