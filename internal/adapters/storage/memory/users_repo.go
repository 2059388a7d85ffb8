package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"healthcare-portal/internal/domain/users"
	"healthcare-portal/internal/ports/auth"
)

type userRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return users.ErrConflict
		}
	}
	r.byID[u.ID] = cloneUser(u)
	r.order = append(r.order, u.ID)
	return nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; !exists {
		return users.ErrNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return users.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) ListByRole(ctx context.Context, role auth.Role) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0)
	for _, id := range r.order {
		u := r.byID[id]
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func cloneUser(u users.User) users.User {
	if u.Doctor != nil {
		d := *u.Doctor
		u.Doctor = &d
	}
	if u.Patient != nil {
		p := *u.Patient
		u.Patient = &p
	}
	return u
}
