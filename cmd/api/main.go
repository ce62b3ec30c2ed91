package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/debtguard/internal/application"
	appanalysis "github.com/bryanwahyu/debtguard/internal/application/analysis"
	appcitations "github.com/bryanwahyu/debtguard/internal/application/citations"
	appcollector "github.com/bryanwahyu/debtguard/internal/application/collector"
	appresources "github.com/bryanwahyu/debtguard/internal/application/resources"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/config"
	domai "github.com/bryanwahyu/debtguard/internal/domain/ai"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	"github.com/bryanwahyu/debtguard/internal/domain/history"
	"github.com/bryanwahyu/debtguard/internal/infra/ai/gemini"
	aiopenai "github.com/bryanwahyu/debtguard/internal/infra/ai/openai"
	"github.com/bryanwahyu/debtguard/internal/infra/ai/stub"
	mysqlp "github.com/bryanwahyu/debtguard/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/debtguard/internal/infra/db/postgres"
	"github.com/bryanwahyu/debtguard/internal/infra/httpserver"
	"github.com/bryanwahyu/debtguard/internal/infra/memstore"
	minioStore "github.com/bryanwahyu/debtguard/internal/infra/storage"
	"github.com/bryanwahyu/debtguard/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// single process-wide AI client, injected into every action handler
	var aiClient domai.Client
	switch cfg.AI.Provider {
	case "gemini":
		if cfg.AI.APIKey == "" {
			log.Fatal("ai.apiKey (or AI_API_KEY) is required for the gemini provider")
		}
		aiClient = gemini.NewClient(cfg.AI.APIKey, cfg.AI.ModelFast, cfg.AI.ModelDeep)
	case "openai":
		if cfg.AI.APIKey == "" {
			log.Fatal("ai.apiKey (or AI_API_KEY) is required for the openai provider")
		}
		aiClient = aiopenai.NewClient(cfg.AI.APIKey, cfg.AI.ModelFast, cfg.AI.ModelDeep)
	case "stub":
		aiClient = stub.NewClient()
	default:
		log.Fatalf("unknown ai provider: %s", cfg.AI.Provider)
	}

	// optional history database
	var historyRepo history.Repository = history.NopRepository{}
	var historyDB *sql.DB
	switch cfg.History.Driver {
	case "mysql":
		historyDB, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer historyDB.Close()
		historyRepo = mysqlp.NewHistoryRepository(historyDB)
	case "postgres":
		historyDB, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer historyDB.Close()
		historyRepo = postgresp.NewHistoryRepository(historyDB)
	case "":
		// history disabled, nothing is persisted
	default:
		log.Fatalf("unknown history driver: %s", cfg.History.Driver)
	}

	// optional document archive
	var archive documents.Archiver
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// in-memory sessions, lost on restart
	store := memstore.New(2 * time.Hour)
	middleware.SetSessionsGauge(store.Len)

	clock := application.SystemClock{}
	runner := &application.Runner{AI: aiClient, History: historyRepo, Clock: clock}

	sessionsSvc := &appsessions.Service{Store: store, Clock: clock}
	analysisSvc := &appanalysis.Service{Sessions: sessionsSvc, Runner: runner, Archive: archive, Clock: clock}
	collectorSvc := &appcollector.Service{Sessions: sessionsSvc, Runner: runner, Clock: clock}
	resourcesSvc := &appresources.Service{Sessions: sessionsSvc}
	citationsSvc := &appcitations.Service{Sessions: sessionsSvc, Runner: runner}

	checkers := map[string]middleware.HealthChecker{}
	if historyDB != nil {
		checkers["history_db"] = &middleware.DatabaseHealthChecker{DB: historyDB}
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(
		sessionsSvc, analysisSvc, collectorSvc, resourcesSvc, citationsSvc,
		historyRepo, checkers,
	))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s (provider=%s)", addr, aiClient.SourceName())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
