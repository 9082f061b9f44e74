package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"opencatalogi/internal/catalogi/cache"
	"opencatalogi/internal/catalogi/handler"
	"opencatalogi/internal/catalogi/service"
	"opencatalogi/internal/catalogi/store"
	"opencatalogi/internal/notifications"
	"opencatalogi/internal/notifications/ledger"
	"opencatalogi/internal/platform/config"
	"opencatalogi/internal/platform/httpserver"
	"opencatalogi/internal/platform/logger"
	"opencatalogi/pkg/platform/audit"
)

func main() {
	if err := run(); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// storage
	var (
		st       store.Store
		ledgerSt ledger.Store
		pool     *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		st = store.NewPostgresStore(pool)
		ledgerSt = ledger.NewPostgresStore(pool)
		log.Info("using postgres store")
	} else {
		st = store.NewInMemoryStore()
		ledgerSt = ledger.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer rdb.Close()
		st = cache.New(st, rdb, log)
		log.Info("published-type cache enabled", "addr", cfg.RedisAddr)
	}

	// audit trail
	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events go to kafka", "topic", cfg.AuditTopic)
	} else {
		sink = audit.NewLogSink(log)
	}
	auditor := audit.NewPublisher(sink, log)

	// notification delivery
	var sender notifications.Sender
	if cfg.NotificationsURL != "" {
		sender = notifications.NewClient(cfg.NotificationsURL, cfg.NotificationsClientID, []byte(cfg.NotificationsSecret))
	} else {
		sender = noopSender{log: log}
		log.Warn("NOTIFICATIONS_URL not set, notifications are logged and dropped")
	}
	dispatcher := notifications.NewDispatcher(sender, ledgerSt, log,
		notifications.WithFailureAuditor(auditor))
	purger := ledger.NewPurger(ledgerSt, log, ledger.WithRetention(cfg.FailedNotificationRetention))

	svc := service.New(st, dispatcher, auditor, log, cfg.BaseURL)

	router := httpserver.NewRouter(log,
		handler.New(svc, log),
		handler.NewAdminHandler(ledgerSt, dispatcher, log),
	)
	server := httpserver.New(cfg.HTTPAddr, router, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return auditor.Run(ctx) })
	g.Go(func() error { return purger.Run(ctx) })
	return g.Wait()
}

// noopSender logs instead of delivering, for development without a
// notification service.
type noopSender struct{ log *slog.Logger }

func (n noopSender) Send(_ context.Context, ev notifications.Event) error {
	n.log.Info("notification (dropped)", "kanaal", ev.Kanaal, "resource", ev.Resource, "actie", ev.Actie)
	return nil
}
