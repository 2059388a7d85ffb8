package users

import (
	"context"

	"healthcare-portal/internal/ports/auth"
)

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// ListByRole con role vacío devuelve todos.
	ListByRole(ctx context.Context, role auth.Role) ([]User, error)
}
