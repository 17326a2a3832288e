package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/example/facility-booking/internal/logging"
	"github.com/example/facility-booking/internal/persistence"
)

// Permission is the recipient-side consent state for out-of-band alerts.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Alert is the transient copy of a notification pushed outside the app.
type Alert struct {
	Recipient persistence.User
	Title     string
	Message   string
	Type      persistence.NotificationType
	RelatedID string
}

// Alerter delivers alerts alongside persisted notifications.
type Alerter interface {
	Permission(ctx context.Context) Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Alert(ctx context.Context, alert Alert) error
}

// ErrAlertQueueFull is returned when the mail queue cannot take another alert.
var ErrAlertQueueFull = errors.New("application: alert queue full")

// LogAlerter writes alerts to the log. It is always permitted.
type LogAlerter struct {
	logger *logrus.Entry
}

// NewLogAlerter returns an alerter logging through logger.
func NewLogAlerter(logger *logrus.Entry) *LogAlerter {
	return &LogAlerter{logger: logging.Or(logger)}
}

func (a *LogAlerter) Permission(context.Context) Permission { return PermissionGranted }

func (a *LogAlerter) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (a *LogAlerter) Alert(ctx context.Context, alert Alert) error {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = a.logger
	}
	logger.WithFields(logrus.Fields{
		"user_id":    alert.Recipient.ID,
		"title":      alert.Title,
		"type":       alert.Type,
		"related_id": alert.RelatedID,
	}).Info(alert.Message)
	return nil
}

// MailSender is the subset of *gomail.Dialer used by MailAlerter.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailConfig configures SMTP delivery of alerts.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	QueueSize int
}

// MailAlerter emails alerts from a background goroutine so that callers never
// wait on SMTP. Close drains the queue.
type MailAlerter struct {
	from   string
	sender MailSender
	logger *logrus.Entry

	queue     chan *gomail.Message
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewMailAlerter dials cfg.Host for every batch of alerts.
func NewMailAlerter(cfg MailConfig, logger *logrus.Entry) *MailAlerter {
	return NewMailAlerterWithSender(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), logger)
}

// NewMailAlerterWithSender is NewMailAlerter with an explicit transport.
func NewMailAlerterWithSender(cfg MailConfig, sender MailSender, logger *logrus.Entry) *MailAlerter {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	a := &MailAlerter{
		from:   cfg.From,
		sender: sender,
		logger: logging.Or(logger).WithField("component", "mail_alerter"),
		queue:  make(chan *gomail.Message, size),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Permission is granted once a sender address and transport are configured.
func (a *MailAlerter) Permission(context.Context) Permission {
	if a.from == "" || a.sender == nil {
		return PermissionDenied
	}
	return PermissionGranted
}

func (a *MailAlerter) RequestPermission(ctx context.Context) (Permission, error) {
	return a.Permission(ctx), nil
}

// Alert queues an email to the recipient. Recipients without an address are
// skipped.
func (a *MailAlerter) Alert(_ context.Context, alert Alert) error {
	if alert.Recipient.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", a.from)
	m.SetHeader("To", alert.Recipient.Email)
	m.SetHeader("Subject", alert.Title)
	m.SetBody("text/plain", alert.Message)

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return errors.New("application: mail alerter closed")
	}
	select {
	case a.queue <- m:
		return nil
	default:
		return ErrAlertQueueFull
	}
}

func (a *MailAlerter) run() {
	defer close(a.done)
	for m := range a.queue {
		if a.sender == nil {
			continue
		}
		if err := a.sender.DialAndSend(m); err != nil {
			a.logger.WithError(err).WithField("to", m.GetHeader("To")).Error("failed to send alert email")
		}
	}
}

// Close stops accepting alerts and waits until queued ones are sent or ctx
// ends.
func (a *MailAlerter) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain alert queue: %w", ctx.Err())
	}
}
