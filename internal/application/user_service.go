package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// UserNotifier receives account lifecycle events raised by UserService.
type UserNotifier interface {
	NotifyUserCreated(ctx context.Context, user persistence.User)
	NotifyUserDeactivated(ctx context.Context, user persistence.User)
}

// UserService lets administrators manage accounts.
type UserService struct {
	users    persistence.UserRepository
	notifier UserNotifier
	logger   *logrus.Entry
}

// NewUserService wires dependencies for the user service. notifier may be nil.
func NewUserService(users persistence.UserRepository, notifier UserNotifier) *UserService {
	return NewUserServiceWithLogger(users, notifier, nil)
}

// NewUserServiceWithLogger wires the user service with a specified logger.
func NewUserServiceWithLogger(users persistence.UserRepository, notifier UserNotifier, logger *logrus.Entry) *UserService {
	return &UserService{users: users, notifier: notifier, logger: logger}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, fields logrus.Fields) *logrus.Entry {
	return serviceLogger(ctx, s.logger, "UserService", operation, fields)
}

// ListUsers returns every account, active or not, to administrators.
func (s *UserService) ListUsers(ctx context.Context, actor persistence.AuthUser) ([]persistence.User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !HasRole(&actor, persistence.RoleAdmin) {
		return nil, ErrUnauthorized
	}
	return s.users.GetAll(ctx), nil
}

// CreateUser validates input and stores a new account. Emails are unique
// regardless of case or active state.
func (s *UserService) CreateUser(ctx context.Context, actor persistence.AuthUser, input persistence.UserInput) (user persistence.User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Department = strings.TrimSpace(input.Department)

	logger := s.loggerWith(ctx, "CreateUser", logrus.Fields{
		"actor_id": actor.ID,
		"email":    input.Email,
	})
	defer func() {
		logOutcome(logger.WithField("user_id", user.ID), err, "failed to create user", "user created")
	}()

	if !HasRole(&actor, persistence.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	if vErr := validateStruct(input); vErr.HasErrors() {
		err = vErr
		return
	}
	for _, existing := range s.users.GetAll(ctx) {
		if strings.EqualFold(existing.Email, input.Email) {
			err = fmt.Errorf("%w: email %s", ErrAlreadyExists, input.Email)
			return
		}
	}

	user = s.users.Create(ctx, input)
	if s.notifier != nil {
		s.notifier.NotifyUserCreated(ctx, user)
	}
	return
}

// DeactivateUser marks an account inactive so it can no longer sign in.
// Deactivating an inactive account is a no-op that does not notify again.
func (s *UserService) DeactivateUser(ctx context.Context, actor persistence.AuthUser, id string) (user persistence.User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "DeactivateUser", logrus.Fields{
		"actor_id": actor.ID,
		"user_id":  id,
	})
	defer func() {
		logOutcome(logger, err, "failed to deactivate user", "user deactivated")
	}()

	if !HasRole(&actor, persistence.RoleAdmin) {
		err = ErrUnauthorized
		return
	}

	existing, ok := s.users.GetByID(ctx, id)
	if !ok {
		err = ErrNotFound
		return
	}
	if !existing.IsActive {
		user = existing
		return
	}

	inactive := false
	if user, ok = s.users.Update(ctx, id, persistence.UserPatch{IsActive: &inactive}); !ok {
		err = ErrNotFound
		return
	}
	if s.notifier != nil {
		s.notifier.NotifyUserDeactivated(ctx, user)
	}
	return
}
