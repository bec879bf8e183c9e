package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidwtbuxton/captain-pasty/handlers"
	"github.com/davidwtbuxton/captain-pasty/highlight"
	"github.com/davidwtbuxton/captain-pasty/internal/config"
	"github.com/davidwtbuxton/captain-pasty/internal/services"
	"github.com/davidwtbuxton/captain-pasty/search"
	"github.com/davidwtbuxton/captain-pasty/storage"
	"github.com/davidwtbuxton/captain-pasty/utils"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

func main() {
	log.Printf("pasty version: %s (built %s, commit %s)", Version, BuildTime, CommitHash)

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if utils.IsDebugEnabled() {
		log.Printf("[DEBUG] Loaded config: %+v", cfg)
	}

	store, err := storage.NewPasteStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize paste store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[ERROR] closing paste store: %v", err)
		}
	}()

	objects, err := storage.NewObjectStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	backend, err := search.NewBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize search backend: %v", err)
	}

	router := setupRouter(cfg, store, objects, backend)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Printf("[INFO] Listening on %s", cfg.GetBaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("[INFO] Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	log.Println("[INFO] Shutdown complete")
}

// setupRouter creates and configures the Gin router
func setupRouter(cfg *config.Config, store storage.PasteStore, objects storage.ObjectStore, backend search.Backend) *gin.Engine {
	overrides, err := cfg.ParseLexerOverrides()
	if err != nil {
		log.Fatalf("Invalid lexer overrides: %v", err)
	}

	hl := highlight.NewEngine(cfg.HighlightStyle)
	index := search.New(backend, objects, store)

	pasteService := services.NewPasteService(store, objects, hl, overrides)
	starService := services.NewStarService(store)
	resaveTask := services.NewResaveTask(store, index)

	pasteHandler := handlers.NewPasteHandler(pasteService, index, cfg)
	starHandler := handlers.NewStarHandler(starService, cfg)
	systemHandler := handlers.NewSystemHandler(resaveTask, cfg)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", systemHandler.Health)
	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/pastes", pasteHandler.Create)
		api.GET("/pastes", pasteHandler.List)
		api.GET("/pastes/:id", pasteHandler.Get)
		api.POST("/pastes/:id/fork", pasteHandler.Fork)
		api.PUT("/pastes/:id/star", starHandler.Star)
		api.DELETE("/pastes/:id/star", starHandler.Unstar)
		api.GET("/starred", starHandler.Starred)
		api.POST("/admin/resave", systemHandler.AdminAuth, systemHandler.Resave)
	}

	router.GET("/raw/:id/*path", pasteHandler.Raw)

	return router
}
