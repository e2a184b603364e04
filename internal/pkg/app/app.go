package app

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"ircbridge/internal/app/adapters/events"
	router "ircbridge/internal/app/adapters/http"
	"ircbridge/internal/app/adapters/http/handlers"
	"ircbridge/internal/app/adapters/irc"
	"ircbridge/internal/app/adapters/metrics"
	"ircbridge/internal/app/infrastructure/config"
	"ircbridge/internal/app/infrastructure/storage"
	"ircbridge/pkg/logger"
)

const configPath = "config.json"

func New() error {
	log := logger.New("logs/main.log")

	manager, err := config.New(configPath)
	if err != nil {
		log.Fatal("Error loading config", err)
	}

	cfg := manager.Get()
	log.SetLogLevel(cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	prometheus.MustRegister(metrics.HandshakeTime, metrics.ScrollbackAppendTime)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		log.Error("Error creating data directory", err)
		return err
	}

	scrollback, err := storage.NewScrollback(log, filepath.Join(cfg.Storage.DataDir, "scrollback"))
	if err != nil {
		log.Error("Error creating scrollback store", err)
		return err
	}
	profiles := storage.NewProfiles(filepath.Join(cfg.Storage.DataDir, "profiles.json"))

	hub := events.New(log)
	go hub.Run()

	registry := irc.New(log, hub, scrollback, nil)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Info("Shutting down, closing live connections")
		registry.CloseAll("shutting down")
		os.Exit(0)
	}()

	h := handlers.New(log, manager, registry, scrollback, profiles, hub)
	return router.NewRouter(log, manager, h).Run(cfg.App.ListenAddr)
}
