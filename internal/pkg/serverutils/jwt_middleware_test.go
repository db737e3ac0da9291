package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, userId uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "rest-secret"
	userId := uuid.New()

	app := fiber.New()
	app.Use(JwtMiddleware(secret))
	app.Get("/protected", func(ctx *fiber.Ctx) error {
		id, _ := ctx.Locals("user_id").(string)
		return ctx.SendString(id)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", userId), http.StatusUnauthorized},
		{"valid token", "Bearer " + signToken(t, secret, userId), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}

func TestJwtMiddlewareSetsIdentityLocal(t *testing.T) {
	const secret = "rest-secret"
	userId := uuid.New()

	app := fiber.New()
	app.Use(JwtMiddleware(secret))

	var gotUserId string
	app.Get("/protected", func(ctx *fiber.Ctx) error {
		gotUserId, _ = ctx.Locals("user_id").(string)
		return ctx.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, secret, userId))
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, userId.String(), gotUserId)
}
