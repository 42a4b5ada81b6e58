package main

import (
	"context"

	"sponsor/etl/internal/config"
	"sponsor/etl/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting sponsorship catalog build...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	app := container.New(cfg)

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Pipeline exited with error: %v", err)
	}

	log.Info("Build finished successfully")
}
