// Package main wires the HTTP and websocket server for the task management service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Sahil-1827/task-management-system-backend/config"
	"github.com/Sahil-1827/task-management-system-backend/internal/audit"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"
	"github.com/Sahil-1827/task-management-system-backend/internal/notify"
	"github.com/Sahil-1827/task-management-system-backend/internal/presence"
	"github.com/Sahil-1827/task-management-system-backend/internal/repository"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/http/middleware"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/http/server/handlers-fiber"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/ws"
	"github.com/Sahil-1827/task-management-system-backend/internal/usecase"
	"github.com/Sahil-1827/task-management-system-backend/internal/usecase/domain"
	"github.com/Sahil-1827/task-management-system-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	repo, err := repository.New(ctx, cfg.Repository.Backend, log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	store, closeStore, err := newAuditStore(ctx, log, cfg, repo)
	if err != nil {
		log.Errorw("audit store initialization error", "backend", cfg.Audit.Backend, "error", err)
		return
	}
	defer closeStore()
	auditLog := audit.NewLog(log, store, audit.NewStoreReach(repo), audit.Limits{
		MaxEntries: cfg.Audit.MaxEntries,
		MaxBytes:   cfg.Audit.MaxBytes,
	})

	registry := presence.NewRegistry()
	hub := ws.NewHub(log, registry, cfg.Notify.SendBuffer)
	dispatcher := notify.NewDispatcher(log, repo, registry, hub)

	uc := usecase.New(log, ctx, repo, cfg.HTTP.RequestTimeout,
		domain.WithAuditor(auditLog),
		domain.WithNotifier(dispatcher),
		domain.WithAsyncNotify(cfg.Notify.Async),
		domain.WithCommentTTL(cfg.Comments.TTL),
	)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	auth := middleware.Authenticate(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)
	serv.Get("/ws", auth, hub.Upgrade, hub.Handler())

	serv.Use("/api", auth)
	h := handlers_fiber.NewHandler(log, uc)
	api.RegisterHandlers(serv, h)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		hub.Close()
		uc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}

// newAuditStore picks the activity log backend. The repository backend keeps
// entries next to the documents they describe.
func newAuditStore(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config, repo repository.Repository) (audit.Store, func(), error) {
	switch cfg.Audit.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := audit.NewRedisStore(client, "activity")
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		log.Infow("audit store ready", "backend", "redis", "addr", cfg.Redis.Addr)
		return store, func() { _ = store.Close() }, nil
	case "memory":
		return audit.NewMemoryStore(), func() {}, nil
	default:
		return repo, func() {}, nil
	}
}
