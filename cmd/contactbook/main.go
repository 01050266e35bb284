package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MPanduranga55/Contact-Book/internal/common/database"
	"github.com/MPanduranga55/Contact-Book/internal/common/logger"
	commonmqtt "github.com/MPanduranga55/Contact-Book/internal/common/mqtt"
	commonredis "github.com/MPanduranga55/Contact-Book/internal/common/redis"
	"github.com/MPanduranga55/Contact-Book/internal/config"
	"github.com/MPanduranga55/Contact-Book/internal/events"
	httpapi "github.com/MPanduranga55/Contact-Book/internal/http"
	"github.com/MPanduranga55/Contact-Book/internal/repository"
	"github.com/MPanduranga55/Contact-Book/internal/service"

	"go.uber.org/zap"
)

const serviceName = "contactbook"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "contactbook: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "contactbook: init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("contactbook exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	repo, db, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn("Failed to close database", zap.Error(err))
			}
		}()
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	contactService := service.NewContactService(repo, publisher, log)

	router := httpapi.NewRouter(log)
	router.RegisterContactRoutes(httpapi.NewContactsHandler(contactService, log))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(contactService))

	router.Use(
		httpapi.RequestID(),
		httpapi.AccessLog(log),
		httpapi.Recover(log),
		httpapi.CORS(cfg.HTTP.CORSOrigin),
	)
	if cfg.RateLimit.Enabled {
		router.Use(newRateLimiter(cfg, log).Middleware())
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.RateLimit.RPS),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.Bool("trust_forwarded_for", cfg.RateLimit.TrustForwardedFor),
		)
	}

	srv := service.NewServer(cfg.HTTP.Addr, router.Handler(), cfg.HTTP.ReadHeaderTimeout, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func newRateLimiter(cfg *config.Config, log *zap.Logger) *httpapi.RateLimiter {
	var opts []httpapi.RateLimiterOption
	if cfg.RateLimit.TrustForwardedFor {
		opts = append(opts, httpapi.WithTrustForwardedFor())
	}
	return httpapi.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log, opts...)
}

// openRepository 按配置选择存储；DB_ENABLED=false 时使用内存 repo
func openRepository(cfg *config.Config, log *zap.Logger) (repository.ContactsRepository, *sql.DB, error) {
	if !cfg.DBEnabled {
		log.Warn("DB disabled, contacts are kept in memory only")
		return repository.NewMemoryContactsRepo(), nil, nil
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		log.Info("Using PostgreSQL store", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		return repository.NewPostgresContactsRepository(db), db, nil
	default:
		db, err := database.NewSQLiteDB(&cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		log.Info("Using SQLite store", zap.String("path", cfg.SQLite.Path))
		return repository.NewSQLiteContactsRepository(db), db, nil
	}
}

// newPublisher 按 EVENTS_BACKEND 创建事件发布器，返回的 close 函数释放连接
func newPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) (events.Publisher, func(), error) {
	switch cfg.Events.Backend {
	case config.EventsRedis:
		client := commonredis.NewRedisClient(&cfg.Redis)
		if err := commonredis.Ping(ctx, client); err != nil {
			_ = commonredis.Close(client)
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("Publishing contact events to Redis stream", zap.String("stream", cfg.Events.Stream))
		closeFn := func() {
			if err := commonredis.Close(client); err != nil {
				log.Warn("Failed to close redis client", zap.Error(err))
			}
		}
		return events.NewRedisStreamPublisher(client, cfg.Events.Stream, cfg.Events.MaxLen, log), closeFn, nil

	case config.EventsMQTT:
		client, err := commonmqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mqtt: %w", err)
		}
		log.Info("Publishing contact events to MQTT", zap.String("topic", cfg.Events.Topic))
		return events.NewMQTTPublisher(client, cfg.Events.Topic, cfg.MQTT.QoS, log), client.Disconnect, nil

	default:
		return events.NopPublisher{}, func() {}, nil
	}
}
