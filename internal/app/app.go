package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cyberblog/internal/config"
	"cyberblog/internal/database"
	"cyberblog/internal/handler"
	"cyberblog/internal/middleware"
	"cyberblog/internal/model"
	"cyberblog/internal/repository"
	"cyberblog/internal/router"
	"cyberblog/internal/service"
)

const minAdminPasswordLength = 8

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, database.PoolSettings{
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		ConnLifetime:      cfg.DBConnLifetime,
		ConnIdleTime:      cfg.DBConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	postRepo := repository.NewPostRepository(db.Pool)
	slog.Info("database ready")

	if err := seedAdmin(context.Background(), cfg, userRepo); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := service.NewAuthService(userRepo)
	csrfService := service.NewCSRFService(cfg.CSRFTTL)
	postService := service.NewPostService(postRepo)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	csrfMiddleware := middleware.NewCSRFMiddleware(csrfService)

	appRouter := router.New(cfg, authMiddleware, csrfMiddleware, router.Handlers{
		Health: handler.NewHealthHandler(db),
		Auth:   handler.NewAuthHandler(authService, tokenService, cfg.IsProduction()),
		CSRF:   handler.NewCSRFHandler(csrfService),
		Post:   handler.NewPostHandler(postService),
		Blog:   handler.NewBlogHandler(postService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}

// seedAdmin creates the admin account on an empty users table, mirroring
// the site's original seed script. ADMIN_PASS must be set for the first
// boot against a fresh database.
func seedAdmin(ctx context.Context, cfg *config.Config, users *repository.UserRepository) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASS is required to seed an empty database")
	}
	if len(cfg.AdminPassword) < minAdminPasswordLength {
		return fmt.Errorf("ADMIN_PASS must be at least %d characters long", minAdminPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, model.User{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return err
	}

	slog.Info("admin user created", "username", admin.Username)
	return nil
}
