// Package jwtauth firma y verifica tokens de sesión HS256.
// Implementa auth.TokenIssuer y auth.AuthVerifier.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthcare-portal/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 12 * time.Hour

var (
	ErrNotConfigured = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

type Config struct {
	Secret string
	TTL    time.Duration
	// Issuer se guarda en el claim "iss" y se exige al verificar.
	Issuer string
}

type sessionClaims struct {
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func New(cfg Config) (*Manager, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrNotConfigured
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: strings.TrimSpace(cfg.Issuer),
		now:    time.Now,
	}, nil
}

func (m *Manager) Issue(ctx context.Context, c auth.Claims) (string, time.Time, error) {
	if strings.TrimSpace(c.UserID) == "" || !c.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}

	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := sessionClaims{
		Email: c.Email,
		Role:  c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &sc, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || sc.Subject == "" || !sc.Role.Valid() {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID: sc.Subject,
		Email:  sc.Email,
		Role:   sc.Role,
	}, nil
}
