package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/SwapnilSonker/bookstore-backend/internal/api"
	"github.com/SwapnilSonker/bookstore-backend/internal/config"
	"github.com/SwapnilSonker/bookstore-backend/internal/imagestore"
	"github.com/SwapnilSonker/bookstore-backend/internal/logger"
	"github.com/SwapnilSonker/bookstore-backend/internal/maintenance"
	"github.com/SwapnilSonker/bookstore-backend/internal/services"
	"github.com/SwapnilSonker/bookstore-backend/internal/store"
	"github.com/SwapnilSonker/bookstore-backend/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up the record store
	st, err := store.New(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize record store")
	}

	// Set up the image artifact store
	images, err := imagestore.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	// Set up WebSocket Hub for the live listing feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(st)
	bookService := services.NewBookService(st, images, hub)

	// Set up and run the orphaned-upload sweeper
	sweeper, err := maintenance.NewSweeper(st, images, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload sweeper")
	}
	go sweeper.Run()

	// Set up metrics registry with the standard process/Go collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Set up router
	router := api.NewRouter(hub, userService, bookService, images, registry, cfg.MaxUploadBytes)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
