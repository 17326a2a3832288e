package http

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/logging"
)

func handlerLogger(ctx context.Context, fallback *logrus.Entry, handlerName, operation string) *logrus.Entry {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = logging.Or(fallback)
	}

	entry := logger.WithField("handler", handlerName)
	if operation != "" {
		entry = entry.WithField("operation", operation)
	}
	return entry
}
