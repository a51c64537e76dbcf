// Package memory provides map-backed repository implementations used
// in tests and local development. Each repository copies entities on
// the way in and out so callers never share storage with each other.
package memory

import (
	"context"
	"sync"

	"ideavine-backend/domain/core/entities"
	pkgerrors "ideavine-backend/pkg/errors"
)

// UserRepository is an in-memory ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
	order []string
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entities.User)}
}

func copyUser(u *entities.User) *entities.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return pkgerrors.NewConflictError("User already exists")
	}
	for _, existing := range r.users {
		if existing.Email == user.Email && existing.IsActive {
			return pkgerrors.NewConflictError("User with this email already exists")
		}
	}
	r.users[user.ID] = copyUser(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return nil, pkgerrors.NewNotFoundError("User")
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email && user.IsActive {
			return copyUser(user), nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("User")
}

func (r *UserRepository) GetByEmailAny(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Insertion order stands in for creation time; scan newest first.
	for i := len(r.order) - 1; i >= 0; i-- {
		if user := r.users[r.order[i]]; user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("User")
}

func (r *UserRepository) UpdateStats(_ context.Context, id string, totalMindmaps, totalNodes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return pkgerrors.NewNotFoundError("User")
	}
	user.RefreshStats(totalMindmaps, totalNodes)
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || !user.IsActive {
		return pkgerrors.NewNotFoundError("User")
	}
	user.SoftDelete()
	return nil
}
