package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	googlerouting "github.com/roomrally/escapade-planner-api/internal/adapters/googlemaps"
	"github.com/roomrally/escapade-planner-api/internal/adapters/haversine"
	"github.com/roomrally/escapade-planner-api/internal/adapters/httpapi"
	memactivities "github.com/roomrally/escapade-planner-api/internal/adapters/memory/activityrepo"
	memplans "github.com/roomrally/escapade-planner-api/internal/adapters/memory/planrepo"
	"github.com/roomrally/escapade-planner-api/internal/adapters/postgres"
	pgplans "github.com/roomrally/escapade-planner-api/internal/adapters/postgres/planrepo"
	redisplans "github.com/roomrally/escapade-planner-api/internal/adapters/redis/planrepo"
	"github.com/roomrally/escapade-planner-api/internal/app/optimizer"
	"github.com/roomrally/escapade-planner-api/internal/app/plans"
	platformclock "github.com/roomrally/escapade-planner-api/internal/platform/clock"
	"github.com/roomrally/escapade-planner-api/internal/platform/config"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/planrepo"
	"github.com/roomrally/escapade-planner-api/internal/ports/out/routing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	planStore, err := buildPlanStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	activities := memactivities.NewRepo()
	memactivities.SeedDemo(activities)

	router, err := buildRoutingClient(cfg)
	if err != nil {
		log.Fatalf("routing init failed: %v", err)
	}

	opt := optimizer.NewService(router)
	opt.SetCallTimeout(cfg.RoutingTimeout)

	svc := plans.NewService(planStore, activities, opt, platformclock.NewSystemClock())
	if err := svc.SetBudget(cfg.DailyBudgetMinutes); err != nil {
		log.Fatalf("invalid DAILY_BUDGET_MINUTES=%d: %v", cfg.DailyBudgetMinutes, err)
	}

	handler := httpapi.NewRouter(httpapi.NewServer(svc, activities))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening addr=%s storage=%s routing=%s budget=%d", srv.Addr, cfg.StorageBackend, cfg.RoutingBackend, cfg.DailyBudgetMinutes)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func buildPlanStore(ctx context.Context, cfg config.Config) (planrepo.Repository, error) {
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, err
		}
		if err := pgplans.InitSchema(ctx, pool); err != nil {
			return nil, err
		}
		return pgplans.NewRepo(pool), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return redisplans.NewRepo(client), nil
	case "memory", "":
		return memplans.NewRepo(), nil
	default:
		return nil, errors.New("unknown STORAGE_BACKEND: " + cfg.StorageBackend)
	}
}

func buildRoutingClient(cfg config.Config) (routing.Client, error) {
	switch cfg.RoutingBackend {
	case "google":
		return googlerouting.NewClient(cfg.MapsAPIKey)
	case "offline", "":
		return haversine.NewClient(), nil
	default:
		return nil, errors.New("unknown ROUTING_BACKEND: " + cfg.RoutingBackend)
	}
}
