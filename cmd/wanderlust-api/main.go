// README: Entry point; loads config, wires services and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"wanderlust/internal/ai"
	"wanderlust/internal/config"
	httptransport "wanderlust/internal/http"
	"wanderlust/internal/http/handlers"
	"wanderlust/internal/infra"
	"wanderlust/internal/maps"
	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
	"wanderlust/internal/modules/quota"
	"wanderlust/internal/modules/session"
	"wanderlust/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, closeLLM, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("ai provider init: %v", err)
	}
	defer closeLLM()
	log.Printf("ai provider=%s model=%s schema=%t", cfg.AI.Provider, cfg.AI.Model, cfg.AI.EnforceSchema)

	var (
		historyStore history.Store = history.NewMemoryStore()
		budgetStore  budget.Store  = budget.NewMemoryStore()
		sessionStore session.Store = session.NewMemoryStore()
		quotaCounter quota.Counter = quota.NewMemoryCounter()
	)

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		if err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		historyStore = history.NewPGStore(dbPool)
		budgetStore = budget.NewPGStore(dbPool)
	} else {
		log.Printf("WANDER_DB_DSN not set; itineraries and budgets are kept in memory")
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient)
		quotaCounter = quota.NewRedisCounter(redisClient)
	} else {
		log.Printf("WANDER_REDIS_ADDR not set; sessions and quota are kept in memory")
	}

	historySvc := history.NewService(historyStore)
	budgetSvc := budget.NewService(budgetStore, historySvc)
	planner := service.NewTripPlanner(service.Deps{
		Generator: itinerary.NewGenerator(llm, itinerary.Options{EnforceSchema: cfg.AI.EnforceSchema}),
		Sessions:  session.NewService(sessionStore),
		Quota:     quota.NewService(quotaCounter, cfg.Quota.Daily),
		History:   historySvc,
		Timeout:   cfg.AI.Timeout,
	})

	deps := httptransport.Deps{
		Planner:       planner,
		History:       historySvc,
		Budget:        budgetSvc,
		RatePerMinute: cfg.HTTP.RatePerMin,
	}
	// Interface fields stay nil unless maps is configured.
	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal(err)
		}
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatal(err)
		}
		deps.Places, deps.Routes = places, routes
	}

	gin.SetMode(gin.ReleaseMode)
	router := httptransport.NewRouter(deps)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", handlers.SessionHeader},
		ExposedHeaders: []string{"X-Trace-ID", "Content-Disposition"},
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
