package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/precisionhealth/skinsight-be/internal/api"
	"github.com/precisionhealth/skinsight-be/internal/auth"
	"github.com/precisionhealth/skinsight-be/internal/config"
	"github.com/precisionhealth/skinsight-be/internal/logger"
	"github.com/precisionhealth/skinsight-be/internal/monitoring"
	"github.com/precisionhealth/skinsight-be/internal/services"
	"github.com/precisionhealth/skinsight-be/internal/store"
	"github.com/precisionhealth/skinsight-be/internal/vision"
	"github.com/precisionhealth/skinsight-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the backup directory exists
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create backup directory")
	}

	// Set up the account store and token codec
	accountStore := store.NewFileStore(cfg.UsersFile)
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(hub, 200)
	userService := services.NewUserService(accountStore, codec)
	visionClient := vision.New(cfg.OpenAIAPIKey, cfg.VisionModel, cfg.VisionMaxTokens, cfg.UpstreamTimeout)
	analysisService := services.NewAnalysisService(visionClient)

	// Set up and run the background store backup worker
	backup := monitoring.NewStoreBackup(accountStore, eventService, cfg.BackupDir, cfg.BackupSchedule, cfg.BackupRetain)
	if err := backup.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start backup worker")
	}

	// Set up router
	router := api.NewRouter(codec, hub, userService, analysisService, eventService, cfg.CORSOrigins)

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

	backup.Stop()
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
