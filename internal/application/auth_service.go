package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/persistence"
)

// AuthService resolves, opens and closes sessions.
//
// Authentication only checks that an active account exists for the email. The
// password is accepted as given and never compared against anything.
type AuthService struct {
	users          persistence.UserRepository
	sessions       persistence.SessionRepository
	tokenGenerator func() string
	logger         *logrus.Entry
}

// NewAuthService constructs an AuthService. A nil token generator defaults to
// random UUIDs.
func NewAuthService(users persistence.UserRepository, sessions persistence.SessionRepository, tokenGenerator func() string) *AuthService {
	return NewAuthServiceWithLogger(users, sessions, tokenGenerator, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(users persistence.UserRepository, sessions persistence.SessionRepository, tokenGenerator func() string, logger *logrus.Entry) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = uuid.NewString
	}
	return &AuthService{users: users, sessions: sessions, tokenGenerator: tokenGenerator, logger: logger}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, fields logrus.Fields) *logrus.Entry {
	return serviceLogger(ctx, s.logger, "AuthService", operation, fields)
}

// CurrentUser returns the user held in session, if any.
func (s *AuthService) CurrentUser(ctx context.Context, session persistence.SessionKey) (persistence.AuthUser, bool) {
	if s == nil || s.sessions == nil {
		return persistence.AuthUser{}, false
	}
	return s.sessions.Get(ctx, session)
}

// ResolveSession returns the session user only while their account still
// exists and is active. Sessions of deactivated or deleted accounts are
// cleared.
func (s *AuthService) ResolveSession(ctx context.Context, session persistence.SessionKey) (persistence.AuthUser, bool) {
	current, ok := s.CurrentUser(ctx, session)
	if !ok || s.users == nil {
		return current, ok
	}

	user, found := s.users.GetByID(ctx, current.ID)
	if found && user.IsActive {
		return persistence.AuthUserFrom(user), true
	}

	s.sessions.Clear(ctx, session)
	s.loggerWith(ctx, "ResolveSession", logrus.Fields{"user_id": current.ID}).
		WithField("error_kind", ErrorKind(ErrUnauthorized)).
		Warn("session closed for inactive account")
	return persistence.AuthUser{}, false
}

// SetCurrentUser replaces whatever session was stored under session.
func (s *AuthService) SetCurrentUser(ctx context.Context, session persistence.SessionKey, user persistence.AuthUser) {
	if s == nil || s.sessions == nil {
		return
	}
	s.sessions.Set(ctx, session, user)
}

// Logout removes session. Logging out twice is harmless.
func (s *AuthService) Logout(ctx context.Context, session persistence.SessionKey) {
	if s == nil || s.sessions == nil {
		return
	}
	s.sessions.Clear(ctx, session)
	s.loggerWith(ctx, "Logout", nil).Info("session cleared")
}

// Authenticate stores the active account matching email as the session user.
// Unknown and inactive accounts are rejected; password is not checked.
func (s *AuthService) Authenticate(ctx context.Context, session persistence.SessionKey, email, password string) (persistence.AuthUser, bool) {
	if s == nil || s.users == nil {
		return persistence.AuthUser{}, false
	}

	logger := s.loggerWith(ctx, "Authenticate", logrus.Fields{"email": email})

	user, ok := s.users.GetByEmail(ctx, email)
	if !ok || !user.IsActive {
		logger.WithField("error_kind", ErrorKind(ErrInvalidCredentials)).Warn("authentication rejected")
		return persistence.AuthUser{}, false
	}

	authUser := persistence.AuthUserFrom(user)
	s.SetCurrentUser(ctx, session, authUser)
	logger.WithField("user_id", authUser.ID).Info("authentication succeeded")
	return authUser, true
}

// Login authenticates into a freshly issued session slot and returns the
// token naming it.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, user persistence.AuthUser, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}

	email = strings.TrimSpace(email)
	if email == "" {
		err = ErrInvalidCredentials
		return
	}

	token = s.tokenGenerator()
	var ok bool
	user, ok = s.Authenticate(ctx, persistence.TokenSessionKey(token), email, password)
	if !ok {
		token = ""
		err = ErrInvalidCredentials
		return
	}
	return token, user, nil
}
