package auth

import (
	"testing"
	"time"

	"booking-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	actor := Actor{ID: "tech-1", Email: "tech@example.com", Role: models.RoleTechnician}
	token, err := m.IssueToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, parsed)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.IssueToken(Actor{ID: "c-1", Email: "c@example.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.IssueToken(Actor{ID: "c-1", Email: "c@example.com", Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.IssueToken(Actor{ID: "x-1", Email: "x@example.com", Role: "superuser"})
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
