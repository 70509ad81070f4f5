package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/artmarket-storefront/internal/app"
	"github.com/angelmondragon/artmarket-storefront/pkg/config"
	"github.com/angelmondragon/artmarket-storefront/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sf, err := app.Init(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to start storefront", err)
		os.Exit(1)
	}

	runErr := run(ctx, sf, os.Args[1:], os.Stdout)
	if err := sf.Dispose(ctx); err != nil {
		sf.Logger.WarnErr(ctx, "dispose failed", err)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(runErr))
		os.Exit(1)
	}
}
