package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/osartun/game-of-three/internal/config"
	httpHandler "github.com/osartun/game-of-three/internal/delivery/http"
	"github.com/osartun/game-of-three/internal/delivery/ws"
	"github.com/osartun/game-of-three/internal/middleware"
	"github.com/osartun/game-of-three/internal/usecase"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()

	// Configure logging
	switch config.AppConfig.LogLevel {
	case "silent", "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		if lvl, err := zerolog.ParseLevel(config.AppConfig.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}

	// Initialize dependencies
	directory := usecase.NewUserDirectory()
	hub := ws.NewHub(directory, config.AppConfig)
	go hub.Run()

	handler := httpHandler.NewHandler(hub)

	// Setup routes
	mux := http.NewServeMux()

	// WebSocket route with rate limiting
	mux.HandleFunc("/ws", middleware.RateLimitFunc(middleware.WebSocketLimiter, handler.HandleWebSocket))

	// API routes with rate limiting
	mux.HandleFunc("/api/rooms", middleware.RateLimitFunc(middleware.APILimiter, handler.HandleRooms))

	// Operational endpoints
	mux.HandleFunc("/health", handler.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:        ":" + config.AppConfig.Port,
		Handler:     securedHandler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", config.AppConfig.Port).
			Str("host", config.AppConfig.HostLabel).
			Str("socket_port", config.AppConfig.SocketPortLabel).
			Msg("game server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
