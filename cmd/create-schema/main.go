package main

import (
	"context"

	"casevalue-backend/config"
	"casevalue-backend/logging"
	"casevalue-backend/repository"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(context.Background())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	log := logging.Component("create-schema")

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or CASEVALUE_DATABASE_URL is required")
	}

	if err := repository.Migrate(cfg.DatabaseURL, -1, log); err != nil {
		log.WithError(err).Fatal("Failed to create schema")
	}

	log.Info("✓ Schema is up to date (cases, analyses)")
}
