package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"basic-api/internal/config"
	"basic-api/internal/domain"
	apigraphql "basic-api/internal/graphql"
	apphttp "basic-api/internal/http"
	"basic-api/internal/repository"
	"basic-api/internal/repository/memory"
	"basic-api/internal/repository/sqlite"
	"basic-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if err := configureLogger(logger, cfg); err != nil {
		logger.Fatalf("configure logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, closeUsers, err := buildUserLookup(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup users: %v", err)
	}
	defer closeUsers()

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
	})
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}
	if cfg.Auth.StrictPasswordMatch {
		logger.Info("login compares passwords against the requested user only")
	}

	userService := service.NewUserService(users, tokens, service.UserServiceConfig{
		StrictPasswordMatch: cfg.Auth.StrictPasswordMatch,
	})
	gate := service.NewAuthGate(tokens, logger.WithField("component", "auth"))

	schema, err := apigraphql.NewSchema(userService, logger.WithField("component", "graphql"))
	if err != nil {
		logger.Fatalf("build graphql schema: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		gate,
		apigraphql.Handler(schema, gate, logger.WithField("component", "graphql")),
		logger.WithField("component", "http"),
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server running at http://%s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}

func buildUserLookup(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserLookup, func(), error) {
	seed := domain.SeedUsers()

	if cfg.Users.Backend != config.BackendSQLite {
		logger.Infof("using in-memory user list (%d users)", len(seed))
		return memory.NewUserRepository(seed), func() {}, nil
	}

	db, err := sqlite.OpenMemory()
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	repo := sqlite.NewUserRepository(db)
	if err := repo.Init(ctx, seed); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init user repository: %w", err)
	}
	logger.Infof("using sqlite user store (%d users)", len(seed))
	return repo, func() { db.Close() }, nil
}
