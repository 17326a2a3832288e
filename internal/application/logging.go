package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/logging"
)

func serviceLogger(ctx context.Context, base *logrus.Entry, serviceName, operation string, fields logrus.Fields) *logrus.Entry {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = logging.Or(base)
	}

	entry := logger.WithField("service", serviceName)
	if operation != "" {
		entry = entry.WithField("operation", operation)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	return entry
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}

func logOutcome(logger *logrus.Entry, err error, failure, success string) {
	if err != nil {
		logger.WithError(err).WithField("error_kind", ErrorKind(err)).Error(failure)
		return
	}
	logger.Info(success)
}
