package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "rfp-intake/docs" // Swagger docs
	"rfp-intake/internal/api"
	"rfp-intake/internal/config"
	"rfp-intake/internal/export"
	"rfp-intake/internal/llm"
	"rfp-intake/internal/logger"
	"rfp-intake/internal/rfp"
	"rfp-intake/internal/storage"
)

// @title RFP Intake API
// @version 1.0
// @description Upload RFP documents, extract their text and score them with an LLM

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg := config.LoadConfig()

	zl, err := logger.New(logger.Options{Mode: cfg.Log, Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	warnings, err := cfg.Validate()
	if err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}
	for _, w := range warnings {
		zl.Warn(w)
	}

	store, err := openStore(cfg, zl)
	if err != nil {
		zl.Fatal("store init failed", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer store.Close()

	analyzer := llm.NewService(llm.Options{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout,
	}, zl)
	extractor := rfp.NewExtractor(cfg.UploadTmpDir, zl)
	processor := rfp.NewProcessor(store, extractor, analyzer, cfg.MaxUploadBytes, zl)

	apiSrv := api.NewAPI(store, processor, export.NewService(store, zl), zl)
	router := api.NewRouter(apiSrv)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  30 * time.Second, // multipart upload
		WriteTimeout: cfg.LLMTimeout + time.Minute, // analysis runs inside the request
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zl.Error("server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	zl.Info("API server listening",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreBackend),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", cfg.LLMModel),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("server failed", zap.Error(err))
	}

	<-idleConnsClosed
}

func openStore(cfg *config.Config, zl *zap.Logger) (storage.Store, error) {
	if cfg.StoreBackend != config.StorePostgres {
		zl.Info("using in-memory store; records are lost on restart")
		return storage.NewMemoryStore(), nil
	}

	zl.Info("connecting to database...")
	db, err := storage.NewDB(cfg.DatabaseURL, zl)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	zl.Info("database connected successfully")
	return db, nil
}
