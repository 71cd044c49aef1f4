package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/httpapi"
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
	setupLog.Info("starting yk-ddns-httpd", "version", Version, "provider", settings.Provider, "addr", settings.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := settings.NewStore(ctx, log.WithName("config"))
	if err != nil {
		return fmt.Errorf("unable to create config store: %w", err)
	}

	handler := &updater.Handler{
		Log:       log.WithName("updater"),
		Config:    store,
		Providers: updater.RegistryProviders(settings.Provider, log),
	}

	srv := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           httpapi.NewRouter(log.WithName("http"), handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited with error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	setupLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
