package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/internal/cache"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/handler"
	"bookstore/internal/kvstore"
	"bookstore/internal/middleware"
	"bookstore/internal/repository"
	"bookstore/internal/router"
	"bookstore/internal/service"

	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bookstore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// Initialize repositories
	bookRepo := repository.NewBookRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	var sessions *scs.SessionManager
	var cartRepo repository.CartRepository

	switch cfg.Cart.Backend {
	case config.CartBackendRedis:
		store := kvstore.NewRedis(redisClient, "cart:", cfg.Cart.TTL, logger)
		cartRepo = repository.NewKVCartRepository(store, logger)
	case config.CartBackendSession:
		sessions = scs.New()
		sessions.Lifetime = cfg.Session.Lifetime
		sessions.Cookie.Name = cfg.Session.CookieName
		sessions.Cookie.HttpOnly = true
		sessions.Cookie.SameSite = http.SameSiteLaxMode
		cartRepo = repository.NewKVCartRepository(kvstore.NewSession(sessions, "cart:"), logger)
	default:
		cartRepo = repository.NewCartRepository(pool, logger)
	}
	logger.Info().Str("backend", cfg.Cart.Backend).Msg("cart storage selected")

	var bookCache cache.BookCache = cache.Noop{}
	if cfg.Cache.Enabled {
		bookCache = cache.NewRedisBookCache(redisClient, cfg.Cache.TTL)
	}

	// Initialize services
	bookService := service.NewBookService(bookRepo, bookCache, logger)
	cartService := service.NewCartService(cartRepo, bookRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, bookRepo, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Book:  handler.NewBookHandler(bookService, logger),
		Cart:  handler.NewCartHandler(cartService, logger),
		Order: handler.NewOrderHandler(orderService, logger),
	}

	opts := router.Options{
		APIKey:   cfg.Auth.APIKey,
		Sessions: sessions,
	}
	if cfg.RateLimit.Enabled {
		opts.Limiter = middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	}

	// Initialize router
	mux := router.New(handlers, opts, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
