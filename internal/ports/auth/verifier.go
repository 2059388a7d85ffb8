package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// RoleLookup resuelve el rol de un usuario en modo dev (X-Debug-User-ID).
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (Role, error)
}

// TokenIssuer firma tokens de sesión tras un login válido.
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (token string, expiresAt time.Time, err error)
}
