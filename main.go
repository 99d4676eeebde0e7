package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Narayanansankar/ParkingDashboard/internal/config"
	"github.com/Narayanansankar/ParkingDashboard/internal/routes"
	"github.com/Narayanansankar/ParkingDashboard/internal/services"
	"github.com/Narayanansankar/ParkingDashboard/internal/upstream"
)

func main() {
	setupLogger()

	cfg, err := config.Load(os.Getenv("PARKING_CONFIG_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	services.InitWebSocketHub()
	services.InitHistoryService(client, cfg.History.Window)

	// background poll loops, cancelled on shutdown
	pctx, pcancel := context.WithCancel(context.Background())
	services.StartSnapshotCollector(pctx, client, cfg)
	services.StartFleetHistoryLoop(pctx, cfg.Refresh.Interval)

	r := gin.New()
	r.Use(gin.Recovery())

	// Serve the frontend assets
	r.Static("/static", cfg.Server.StaticDir)
	r.StaticFile("/", cfg.Server.StaticDir+"/index.html")

	routes.RegisterDashboardRoutes(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("upstream", cfg.Upstream.BaseURL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutdown initiated")

	pcancel()
	services.StopWebSocketHub()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shut down")
	}
}

func setupLogger() {
	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("PARKING_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
