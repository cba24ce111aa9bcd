package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordering-be/internal/config"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/middleware"
	"ordering-be/internal/order"
	"ordering-be/internal/product"
	"ordering-be/internal/transport"
	"ordering-be/internal/user"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var (
	initDBFunc = db.InitDB

	startServerFunc = func(ctx context.Context, addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := initDBFunc(cfg)
	defer database.Close()

	addr := ":" + cfg.AppPort
	logger.L().Info("server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))

	if err := startServerFunc(ctx, addr, newServer(ctx, cfg, database)); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	logger.L().Info("server stopped gracefully")
	return nil
}

// newServer builds repositories, services and handlers on top of database.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	tx := db.NewTxManager(database, sql.LevelReadCommitted)

	productSvc := product.NewService(product.NewRepository(database), tx, cfg.LowStockThreshold)
	userSvc := user.NewService(user.NewRepository(database), tx)

	itemRepo := order.NewItemRepository(database)
	orderRepo := order.NewRepository(database, itemRepo)
	itemSvc := order.NewItemService(itemRepo, orderRepo, productSvc, tx)
	orderSvc := order.NewService(orderRepo, itemSvc, productSvc, userSvc, tx)

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	go limiter.RunCleanup(ctx)

	router := transport.NewRouter([]transport.Registrar{
		transport.NewOrderHandler(orderSvc, itemSvc),
		transport.NewProductHandler(productSvc),
		transport.NewUserHandler(userSvc),
	}, limiter.Middleware)

	return setupRouter(router)
}

// setupRouter wraps the router with request id and access logging.
func setupRouter(router http.Handler) http.Handler {
	return logger.RequestIDMiddleware(logger.LoggingMiddleware(router))
}
