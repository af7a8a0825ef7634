// Package server boots the application: config, database, cache, storage,
// routes, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkful/forkful/app/controllers"
	"github.com/forkful/forkful/app/repositories"
	"github.com/forkful/forkful/app/routes"
	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/config"
	"github.com/forkful/forkful/database/migrations"
	"github.com/forkful/forkful/pkg/cache"
	"github.com/forkful/forkful/pkg/database"
	"github.com/forkful/forkful/pkg/geocode"
	"github.com/forkful/forkful/pkg/logger"
	"github.com/forkful/forkful/pkg/metrics"
	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/reqid"
	"github.com/forkful/forkful/pkg/router"
	"github.com/forkful/forkful/pkg/storage"
	"github.com/forkful/forkful/pkg/workerpool"
)

const shutdownTimeout = 15 * time.Second

// uploadWorkers bounds concurrent object-storage uploads across requests.
const uploadWorkers = 8

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())

	// Optional async request-log sink in Mongo.
	if config.LogMongoEnabled() {
		h := logger.NewMongoHandler(database.Collection("logs"))
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), h))
		defer h.Close()
	}

	cache.Connect(ctx)
	storage.Connect()

	if err := migrations.RunAll(ctx, database.DB); err != nil {
		return err
	}

	pool := workerpool.New(uploadWorkers)
	defer pool.Shutdown()

	handler := BuildRouter(pool).Handler()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// BuildRouter wires the global middleware stack, repositories, services and
// controllers onto a fresh router. Exposed so the CLI can print the route
// table without listening.
//
// Middleware order (outermost → innermost):
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS
//  6. Rate limiter
func BuildRouter(pool *workerpool.Pool) *router.Router {
	users := repositories.NewUserRepository(database.Collection("users"))
	restaurants := repositories.NewRestaurantRepository(database.Collection("restaurants"))
	meals := repositories.NewMealRepository(database.Collection("meals"))

	authService := services.NewAuthService(users)
	restaurantService := services.NewRestaurantService(restaurants, geocode.New(), storage.Default(), pool)
	mealService := services.NewMealService(meals, restaurants)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromConfig()))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authService),
		Restaurant: controllers.NewRestaurantController(restaurantService),
		Meal:       controllers.NewMealController(mealService),
		Resolver:   authService,
	})
	return r
}
