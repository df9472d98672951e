// Package auth verifies bearer tokens issued by the identity provider and
// exposes the authenticated user to handlers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gravadigital/orbitview-api/internal/apperr"
	"github.com/gravadigital/orbitview-api/internal/domain/user"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/response"
)

const userKey = "auth.user_id"

// Claims carried by an access token. The subject is the user UUID.
type Claims struct {
	Username string `json:"preferred_username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Provisioner creates the local profile of an identity on first sight
type Provisioner interface {
	Ensure(ctx context.Context, id uuid.UUID, username, email string) (*user.User, error)
}

// Middleware authenticates requests with HS256 tokens
type Middleware struct {
	secret []byte
	issuer string
	users  Provisioner
	log    *log.Logger
}

func New(secret, issuer string, users Provisioner) (*Middleware, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Middleware{
		secret: []byte(secret),
		issuer: issuer,
		users:  users,
		log:    logger.Auth(),
	}, nil
}

// Parse verifies signature, expiry and, when configured, the issuer
func (m *Middleware) Parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the user id in the context.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			response.AbortWithError(c, apperr.Unauthenticated("missing bearer token"))
			return
		}

		claims, err := m.Parse(strings.TrimSpace(token))
		if err != nil {
			m.log.Debug("Rejected token", "path", c.Request.URL.Path, "error", err)
			response.AbortWithError(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.AbortWithError(c, apperr.Unauthenticated("token subject is not a user id"))
			return
		}

		if m.users != nil {
			if _, err := m.users.Ensure(c.Request.Context(), id, claims.Username, claims.Email); err != nil {
				m.log.Error("Failed to provision user", "user", id, "error", err)
				response.AbortWithError(c, err)
				return
			}
		}

		c.Set(userKey, id)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id, or uuid.Nil outside Authenticate
func CurrentUser(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// SetUser stores id as the authenticated user
func SetUser(c *gin.Context, id uuid.UUID) {
	c.Set(userKey, id)
}

// Sign issues a token for id. Used by tooling and tests; production tokens
// come from the identity provider.
func Sign(secret, issuer string, id uuid.UUID, username, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
