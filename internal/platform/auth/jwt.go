// Package auth issues and verifies payor session tokens and exposes the
// authenticated payor identity to handlers.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "payor_identity"

// Identity is the authenticated payor attached to a request.
type Identity struct {
	PayorID      string `json:"payor_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

// TokenIssuer signs payor session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	PayorID      string `json:"payor_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	jwt.RegisteredClaims
}

// Issue returns a signed HS256 token for the given payor identity.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		PayorID:      id.PayorID,
		Email:        id.Email,
		Name:         id.Name,
		Organization: id.Organization,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.PayorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (t *TokenIssuer) Verify(tokenString string) (*Identity, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &Identity{
		PayorID:      claims.PayorID,
		Email:        claims.Email,
		Name:         claims.Name,
		Organization: claims.Organization,
	}, nil
}

// Middleware authenticates requests via the Authorization bearer token and
// stores the payor identity on the request context.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			id, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("payor_id", id.PayorID)
			return next(c)
		}
	}
}

// IdentityFromContext retrieves the authenticated payor identity, if any.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// PayorIDFromContext retrieves the authenticated payor ID, or "" when the
// request is unauthenticated.
func PayorIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.PayorID
	}
	return ""
}
