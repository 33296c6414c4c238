package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/smsbroker/internal/config"
	"github.com/fsdevblog/smsbroker/internal/lifecycle"
	"github.com/fsdevblog/smsbroker/internal/logger"
	"github.com/fsdevblog/smsbroker/internal/notify"
	"github.com/fsdevblog/smsbroker/internal/repository/gormrepo"
	"github.com/fsdevblog/smsbroker/internal/repository/memrepo"
	"github.com/fsdevblog/smsbroker/internal/repository/pgrepo"
	"github.com/fsdevblog/smsbroker/internal/service"
	"github.com/fsdevblog/smsbroker/internal/transport/api"
	"github.com/fsdevblog/smsbroker/internal/transport/monitor"
	"github.com/fsdevblog/smsbroker/internal/transport/provider"
	"github.com/fsdevblog/smsbroker/pkg/uow"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout = 10 * time.Second
	pingTimeout     = 3 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := logger.Component(a.Logger, "app", "run")
	l.WithFields(logrus.Fields{
		"address": a.Config.RunAddress,
		"storage": a.Config.StorageDriver,
	}).Info("Starting app")

	unitOfWork, closeStorage, storageErr := a.openStorage(notifyCtx)
	if storageErr != nil {
		return fmt.Errorf("app run: %w", storageErr)
	}
	defer closeStorage()

	client := provider.New(
		a.Config.ProviderAPIKey,
		provider.BuildBaseURLs(a.Config.ProviderBaseURL, a.Config.ProviderFallbackURLs),
		a.Logger,
	).SetRateLimit(a.Config.ProviderRPS)

	notifier, closeNotifier := a.notifier(notifyCtx)
	defer closeNotifier()

	services, sErr := service.Factory(unitOfWork, client, notifier, a.Logger)
	if sErr != nil {
		return fmt.Errorf("app run: %w", sErr)
	}

	policy := lifecycle.Policy{
		CancelLock: a.Config.CancelLock,
		MaxMonitor: a.Config.MaxMonitor,
	}
	services.Activations.SetPolicy(policy)

	scheduler := monitor.New(client, services.Activations, notifier, a.Logger).
		SetPollInterval(a.Config.PollInterval).
		SetPolicy(policy)
	services.SetMonitors(scheduler)

	if a.Config.AdminUserID != 0 {
		if err := services.Ledger.EnsureAdmin(notifyCtx, a.Config.AdminUserID); err != nil {
			return fmt.Errorf("app run: %w", err)
		}
	}

	// незавершенные покупки прошлого запуска разбираем до приема новых запросов
	a.reconcile(notifyCtx, services.Purchases)

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(notifyCtx)
	}()

	go a.reconcileLoop(notifyCtx, services.Purchases)

	router := api.New(api.RouterArgs{
		Logger:       a.Logger,
		Ledger:       services.Ledger,
		Activations:  services.Activations,
		Catalog:      services.Catalog,
		Purchases:    services.Purchases,
		JWTSecretKey: []byte(a.Config.JWTSecret),
	})

	server := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := server.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	var result error
	select {
	case <-notifyCtx.Done():
		result = notifyCtx.Err()
	case err := <-errChan:
		result = err
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("http server shutdown")
	}
	<-schedulerDone

	return result
}

// openStorage подключает выбранное хранилище и регистрирует его репозитории.
func (a *App) openStorage(ctx context.Context) (uow.UOW, func(), error) {
	switch a.Config.StorageDriver {
	case config.StorageDriverPostgres:
		conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
		if connErr != nil {
			return nil, nil, fmt.Errorf("open storage: %w", connErr)
		}
		unitOfWork := uow.NewUnitOfWork(conn)
		if err := pgrepo.Register(unitOfWork); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return unitOfWork, conn.Close, nil

	case config.StorageDriverSqlite:
		db, openErr := gormrepo.Open(a.Config.SqlitePath, a.Logger)
		if openErr != nil {
			return nil, nil, fmt.Errorf("open storage: %w", openErr)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		unitOfWork := uow.NewGormUnitOfWork(db)
		if err := gormrepo.Register(unitOfWork); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return unitOfWork, closeFn, nil

	case config.StorageDriverMemory:
		unitOfWork := memrepo.NewUnitOfWork(memrepo.NewStore())
		if err := memrepo.Register(unitOfWork); err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		return unitOfWork, func() {}, nil
	}
	return nil, nil, fmt.Errorf("open storage: unknown driver %q", a.Config.StorageDriver)
}

// notifier собирает приемники уведомлений. Очередь redis подключается, если задан REDIS_ADDR.
func (a *App) notifier(ctx context.Context) (notify.Emitter, func()) {
	emitters := notify.Fanout{notify.NewLogEmitter(a.Logger)}
	if a.Config.RedisAddr == "" {
		return emitters, func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Component(a.Logger, "app", "notifier").
			WithError(err).
			Warn("redis is not reachable, notifications will be retried on emit")
	}

	emitters = append(emitters, notify.NewRedisEmitter(rdb, ""))
	return emitters, func() { _ = rdb.Close() }
}

func (a *App) reconcile(ctx context.Context, purchases *service.PurchaseService) {
	l := logger.Component(a.Logger, "app", "reconcile")
	n, err := purchases.ReconcileIntents(ctx, a.Config.IntentStaleAfter)
	if err != nil {
		l.WithError(err).Error("reconcile purchase intents")
		return
	}
	if n > 0 {
		l.WithField("count", n).Warn("reconciled stale purchase intents")
	}
}

func (a *App) reconcileLoop(ctx context.Context, purchases *service.PurchaseService) {
	ticker := time.NewTicker(a.Config.IntentStaleAfter)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.reconcile(ctx, purchases)
		}
	}
}
