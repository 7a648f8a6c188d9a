package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/you/identitysvc/internal/app"
	"github.com/you/identitysvc/internal/config"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", "error", err)
		os.Exit(1)
	}
	if err := app.Run(cfg, logger); err != nil {
		logger.Error("app", "error", err)
		os.Exit(1)
	}
}
