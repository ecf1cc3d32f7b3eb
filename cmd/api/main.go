package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"neon-portal/internal/config"
	"neon-portal/internal/db"
	"neon-portal/internal/email"
	apihttp "neon-portal/internal/http"
	"neon-portal/internal/localstore"
	"neon-portal/internal/repository"
	"neon-portal/internal/service"
	"neon-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	}
	defer logger.Sync()

	store, closeStore, err := openDocumentStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("document store", zap.Error(err))
	}
	defer closeStore()

	userRepo := repository.NewDocumentUserRepository(store)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure user indexes", zap.Error(err))
	}

	local, closeLocal, err := openLocalStore(ctx, cfg)
	if err != nil {
		logger.Fatal("local store", zap.Error(err))
	}
	defer closeLocal()

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender)
	tokenSvc := service.NewClientTokenService(cfg.ClientSecret)

	registry := session.NewRegistry(local, logger)
	idle := time.Duration(cfg.ClientIdleMinutes) * time.Minute
	go registry.RunSweeper(ctx, idle/4, idle)

	clients := apihttp.NewClientResolver(logger, tokenSvc, registry, cfg.SecureCookies)
	authHandler := apihttp.NewAuthHandler(logger, userSvc)
	profileHandler := apihttp.NewProfileHandler(logger, userSvc)
	gameHandler := apihttp.NewGameHandler(logger, cfg.GameFrameRate)
	router := apihttp.NewRouter(logger, clients, authHandler, profileHandler, gameHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreDriver),
		zap.String("local_store", cfg.LocalStoreDriver),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

func openDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := db.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("mongo disconnect", zap.Error(err))
			}
		}
		return repository.NewMongoDocumentStore(client.Database(cfg.MongoDatabase)), closeFn, nil
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPgDocumentStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case config.StoreMemory:
		logger.Warn("using in-memory document store; users are lost on restart")
		return repository.NewMemoryDocumentStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openLocalStore(ctx context.Context, cfg *config.Config) (localstore.Store, func(), error) {
	switch cfg.LocalStoreDriver {
	case config.LocalStoreRedis:
		client, err := db.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return localstore.NewRedisStore(client), func() { _ = client.Close() }, nil
	case config.LocalStoreSQLite:
		store, err := localstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.LocalStoreMemory:
		return localstore.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown local store driver %q", cfg.LocalStoreDriver)
	}
}
