package jwtauth

import (
	"context"
	"testing"
	"time"

	"healthcare-portal/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{Secret: "  "})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIssueAndVerify(t *testing.T) {
	m, err := New(Config{Secret: "s3cret", TTL: time.Hour, Issuer: "portal"})
	require.NoError(t, err)

	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, exp, err := m.Issue(context.Background(), auth.Claims{UserID: "doc-1", Email: "sarah@clinic.com", Role: auth.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	c, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "doc-1", Email: "sarah@clinic.com", Role: auth.RoleDoctor}, c)
}

func TestVerify_Expired(t *testing.T) {
	m, err := New(Config{Secret: "s3cret", TTL: time.Minute})
	require.NoError(t, err)

	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	token, _, err := m.Issue(context.Background(), auth.Claims{UserID: "p-1", Role: auth.RolePatient})
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecretOrIssuer(t *testing.T) {
	a, err := New(Config{Secret: "one", Issuer: "portal"})
	require.NoError(t, err)
	b, err := New(Config{Secret: "two", Issuer: "portal"})
	require.NoError(t, err)
	c, err := New(Config{Secret: "one", Issuer: "other"})
	require.NoError(t, err)

	token, _, err := a.Issue(context.Background(), auth.Claims{UserID: "p-1", Role: auth.RolePatient})
	require.NoError(t, err)

	_, err = b.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = c.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	m, err := New(Config{Secret: "s3cret"})
	require.NoError(t, err)

	claims := sessionClaims{
		Role: auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_RequiresRole(t *testing.T) {
	m, err := New(Config{Secret: "s3cret"})
	require.NoError(t, err)

	_, _, err = m.Issue(context.Background(), auth.Claims{UserID: "x", Role: "nurse"})
	assert.Error(t, err)
	_, err = m.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}
