package services

import (
	"context"

	"go.uber.org/zap"

	"ideavine-backend/application/ports"
	"ideavine-backend/domain/core/entities"
	"ideavine-backend/domain/events"
	pkgerrors "ideavine-backend/pkg/errors"
)

// UserService manages user accounts. Emails are the external key:
// callers address users by email, the service resolves to the UUID.
type UserService struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
	cascade   *statsCascade
}

// NewUserService creates a UserService.
func NewUserService(
	users ports.UserRepository,
	mindmaps ports.MindMapRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		publisher: publisher,
		logger:    logger,
		cascade:   &statsCascade{users: users, mindmaps: mindmaps, nodes: nodes, logger: logger},
	}
}

// Create registers a new user. An active holder of the email yields a
// conflict; a soft-deleted holder does not, so deactivated accounts
// never block re-registration.
func (s *UserService) Create(ctx context.Context, email, name string) (*entities.User, error) {
	if email == "" {
		return nil, pkgerrors.NewMissingFieldError("email")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, pkgerrors.NewConflictError("User with this email already exists")
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	user, err := entities.NewUser(email, name)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_uid", user.ID))
	publish(ctx, s.publisher, s.logger, events.NewUserCreated(user.ID, user.Email))
	return user, nil
}

// Lookup resolves an email to its active user. The cached counters are
// refreshed before the record is returned, so a lookup always reports
// current totals even after cascade steps were lost.
func (s *UserService) Lookup(ctx context.Context, email string) (*entities.User, error) {
	if email == "" {
		return nil, pkgerrors.NewMissingFieldError("email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.cascade.refreshUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.users.GetByEmail(ctx, email)
}

// Delete soft-deletes the active user holding the email. Mindmaps and
// nodes are left untouched; only account visibility changes.
func (s *UserService) Delete(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.SoftDelete(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("user deactivated", zap.String("user_uid", user.ID))
	publish(ctx, s.publisher, s.logger, events.NewUserDeactivated(user.ID))
	return nil
}
