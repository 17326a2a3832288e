package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/config"
	httptransport "github.com/example/facility-booking/internal/http"
	"github.com/example/facility-booking/internal/kvstore"
	"github.com/example/facility-booking/internal/logging"
	"github.com/example/facility-booking/internal/persistence"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".", "/etc/facilitydesk")
	if err != nil {
		logrus.WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	logger := logrus.NewEntry(logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}))
	gin.SetMode(gin.ReleaseMode)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to start booking desk")
		os.Exit(1)
	}
	defer app.close(logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		logger.WithError(err).Error("failed to listen")
		app.close(logger)
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"addr":         server.Addr,
		"store_driver": cfg.Store.Driver,
		"alert_driver": cfg.Alert.Driver,
	}).Info("booking desk API listening")
	if err := serve(ctx, server, listener, logger); err != nil {
		logger.WithError(err).Error("server encountered error")
		app.close(logger)
		os.Exit(1)
	}
}

// serve runs server on listener until ctx is done. It returns only after
// Shutdown has drained in-flight requests, so callers may release the
// resources handlers depend on.
func serve(ctx context.Context, server *http.Server, listener net.Listener, logger *logrus.Entry) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("failed to shutdown server")
		}
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}

type app struct {
	handler  http.Handler
	services services
	closers  []func(context.Context) error
}

type services struct {
	auth          *application.AuthService
	bookings      *application.BookingService
	users         *application.UserService
	facilities    *application.FacilityService
	notifications *application.NotificationDispatcher
}

// newApp wires storage, services and the router for cfg. The returned app
// owns every resource it opened.
func newApp(ctx context.Context, cfg config.Config, logger *logrus.Entry) (*app, error) {
	a := &app{}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, func(context.Context) error { return closeStore.Close() })
	}

	adapter := kvstore.NewAdapter(store, logger.WithField("component", "kvstore"))
	if cfg.SeedDefaults {
		persistence.Seed(ctx, adapter)
	}

	bookingRepo := persistence.NewBookingStore(adapter)
	userRepo := persistence.NewUserStore(adapter)
	notificationRepo := persistence.NewNotificationStore(adapter)
	facilityRepo := persistence.NewFacilityStore(adapter)
	sessionRepo := persistence.NewSessionStore(adapter)

	alerter := newAlerter(cfg.Alert, logger)
	if closer, ok := alerter.(interface{ Close(context.Context) error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	dispatcher := application.NewNotificationDispatcherWithLogger(notificationRepo, userRepo, alerter, logger)
	a.services = services{
		auth:          application.NewAuthServiceWithLogger(userRepo, sessionRepo, nil, logger),
		bookings:      application.NewBookingServiceWithLogger(bookingRepo, dispatcher, nil, logger),
		users:         application.NewUserServiceWithLogger(userRepo, dispatcher, logger),
		facilities:    application.NewFacilityServiceWithLogger(facilityRepo, logger),
		notifications: dispatcher,
	}
	if !dispatcher.RequestAlertPermission(ctx) {
		logger.WithField("alert_driver", cfg.Alert.Driver).Info("alerts disabled")
	}

	a.handler = httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:      a.services.auth,
		Auth:          httptransport.NewAuthHandler(a.services.auth, logger),
		Bookings:      httptransport.NewBookingHandler(a.services.bookings, logger),
		Notifications: httptransport.NewNotificationHandler(a.services.notifications),
		Facilities:    httptransport.NewFacilityHandler(a.services.facilities, logger),
		Users:         httptransport.NewUserHandler(a.services.users, logger),
		Logger:        logger,
	})
	return a, nil
}

// close releases resources in reverse order of acquisition. It is safe to
// call more than once.
func (a *app) close(logger *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.WithError(err).Error("failed to release resource")
		}
	}
	a.closers = nil
}

// openStore returns the medium selected by cfg.Driver. The none driver
// returns a nil store, which the adapter treats as unavailable.
func openStore(ctx context.Context, cfg config.StoreConfig) (kvstore.Store, io.Closer, error) {
	switch cfg.Driver {
	case config.StoreDriverSQLite:
		store, err := kvstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	case config.StoreDriverRedis:
		client := kvstore.NewRedisClient(kvstore.RedisConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		store, err := kvstore.NewRedisStore(ctx, client, cfg.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, store, nil
	case config.StoreDriverMemory:
		return kvstore.NewMemoryStore(), nil, nil
	case config.StoreDriverNone:
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func newAlerter(cfg config.AlertConfig, logger *logrus.Entry) application.Alerter {
	switch cfg.Driver {
	case config.AlertDriverMail:
		return application.NewMailAlerter(application.MailConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, logger)
	case config.AlertDriverLog:
		return application.NewLogAlerter(logger)
	}
	return nil
}
