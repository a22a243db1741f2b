package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/mbazhenov/blog-platform/internal/config"
	"github.com/mbazhenov/blog-platform/internal/handlers"
	"github.com/mbazhenov/blog-platform/internal/jwt"
	"github.com/mbazhenov/blog-platform/internal/logger"
	"github.com/mbazhenov/blog-platform/internal/middlewares"
	"github.com/mbazhenov/blog-platform/internal/repositories"
	"github.com/mbazhenov/blog-platform/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title blog-platform API
// @version 1.0.0
// @description Blog platform with token-based authentication, user accounts and posts
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.New(configPath)
	if err != nil {
		stdlog.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		stdlog.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database and HTTP server, sets up routes,
// applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", cfg.LogLevel)

	log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}

	tokener, err := jwt.New(cfg.JWTSecretKey, cfg.JWTAlgorithm, cfg.AccessTokenExp)
	if err != nil {
		return fmt.Errorf("token codec init failed: %w", err)
	}

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(db, log)
	userWriteRepo := repositories.NewUserWriteRepository(db, log)
	postReadRepo := repositories.NewPostReadRepository(db, log)
	postWriteRepo := repositories.NewPostWriteRepository(db, log)

	// Services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokener, log)
	usersService := services.NewUsersService(userReadRepo, userWriteRepo, log)
	postsService := services.NewPostsService(postReadRepo, postWriteRepo, userReadRepo, log)

	// Handlers
	registerHandler := handlers.NewRegisterHandler(authService, log)
	loginHandler := handlers.NewLoginHandler(authService, log)
	meHandler := handlers.NewMeHandler()
	getUserHandler := handlers.NewGetUserHandler(usersService, log)
	updateUserHandler := handlers.NewUpdateUserHandler(usersService, log)
	deleteUserHandler := handlers.NewDeleteUserHandler(usersService, log)
	listPostsHandler := handlers.NewListPostsHandler(postsService, log)
	getPostHandler := handlers.NewGetPostHandler(postsService, log)
	getUserPostsHandler := handlers.NewGetUserPostsHandler(postsService, log)
	createPostHandler := handlers.NewCreatePostHandler(postsService, log)
	updatePostHandler := handlers.NewUpdatePostHandler(postsService, log)
	deletePostHandler := handlers.NewDeletePostHandler(postsService, log)

	authMiddleware := middlewares.AuthMiddleware(tokener, authService, log)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", registerHandler)
		r.Post("/token", loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", meHandler)
			r.Patch("/{userID}", updateUserHandler)
			r.Delete("/{userID}", deleteUserHandler)
		})

		r.Get("/{userID}", getUserHandler)
		r.Get("/{userID}/posts", getUserPostsHandler)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", listPostsHandler)
		r.Get("/{postID}", getPostHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", createPostHandler)
			r.Patch("/{postID}", updatePostHandler)
			r.Delete("/{postID}", deletePostHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
