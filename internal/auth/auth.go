// Package auth is the identity provider: it turns bearer tokens into
// actors with a role the rest of the service can authorize against.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// ErrUnauthenticated is returned when no valid credential accompanies a
// request.
var ErrUnauthenticated = errors.New("missing or invalid credentials")

const actorContextKey = "auth.actor"

// Actor is the authenticated caller.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 access tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// IssueToken mints a signed token for an actor
func (m *Manager) IssueToken(actor Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: actor.Email,
		Role:  actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns the actor it identifies
func (m *Manager) ParseToken(tokenString string) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return Actor{}, ErrUnauthenticated
	}

	switch claims.Role {
	case models.RoleCustomer, models.RoleTechnician, models.RoleAdmin:
	default:
		return Actor{}, fmt.Errorf("%w: unknown role %q", ErrUnauthenticated, claims.Role)
	}

	return Actor{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// Middleware authenticates requests and stores the actor in the request
// context. Requests without a valid bearer token are rejected.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := m.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireRole rejects requests whose actor does not carry the given role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := CurrentActor(c)
		if err != nil || actor.Role != role {
			c.AbortWithStatusJSON(403, gin.H{"error": fmt.Sprintf("requires %s role", role)})
			return
		}
		c.Next()
	}
}

// CurrentActor returns the authenticated actor for the request
func CurrentActor(c *gin.Context) (Actor, error) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	actor, ok := v.(Actor)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	return actor, nil
}
