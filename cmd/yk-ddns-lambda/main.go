package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/logging"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/updater"

	_ "github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns/providers"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("unable to load settings: %w", err)
	}

	log, err := logging.New(settings.LogLevel, settings.LogDevelopment)
	if err != nil {
		return err
	}
	setupLog := log.WithName("setup")
	setupLog.Info("starting yk-ddns-lambda", "version", Version, "provider", settings.Provider)

	store, err := settings.NewStore(context.Background(), log.WithName("config"))
	if err != nil {
		return fmt.Errorf("unable to create config store: %w", err)
	}

	handler := &updater.Handler{
		Log:       log.WithName("updater"),
		Config:    store,
		Providers: updater.RegistryProviders(settings.Provider, log),
	}

	lambda.Start(func(ctx context.Context, req updater.Request) (updater.Result, error) {
		return handler.Handle(ctx, req), nil
	})
	return nil
}
