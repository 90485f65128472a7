package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gira-service/internal/config"
	clientAssign "gira-service/internal/http-server/handlers/clients/assign"
	clientRemove "gira-service/internal/http-server/handlers/clients/remove"
	clientRename "gira-service/internal/http-server/handlers/clients/rename"
	clientStatus "gira-service/internal/http-server/handlers/clients/status"
	providerAvailable "gira-service/internal/http-server/handlers/providers/available"
	providerEdit "gira-service/internal/http-server/handlers/providers/edit"
	providerGet "gira-service/internal/http-server/handlers/providers/get"
	providerRegister "gira-service/internal/http-server/handlers/providers/register"
	providerRemove "gira-service/internal/http-server/handlers/providers/remove"
	providerToggle "gira-service/internal/http-server/handlers/providers/toggle"
	searchGet "gira-service/internal/http-server/handlers/search/get"
	sessionClose "gira-service/internal/http-server/handlers/session/close"
	sessionHistory "gira-service/internal/http-server/handlers/session/history"
	slotAvailable "gira-service/internal/http-server/handlers/slots/available"
	slotToggle "gira-service/internal/http-server/handlers/slots/toggle"
	"gira-service/internal/models"
	"gira-service/internal/notify"
	svc "gira-service/internal/service"
	"gira-service/internal/storage/file"
	"gira-service/internal/storage/postgres"
	"gira-service/internal/storage/redisstore"
	"gira-service/pkg/handlers/slogpretty"
	"gira-service/pkg/metrics"
	"gira-service/pkg/middleware/mwlogger"
	"gira-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type storage interface {
	svc.Persister
	Close() error
}

func openStorage(cfg *config.Config) (storage, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(cfg.Storage.PostgresDSN)
	case "redis":
		return redisstore.New(cfg.Storage.RedisAddr)
	default:
		return file.New(cfg.Storage.Path)
	}
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	store, err := openStorage(cfg)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	log.Info("Storage ready", slog.String("driver", cfg.Storage.Driver))

	tax := models.Taxonomy{
		Categories: cfg.Session.Categories,
		Roles:      cfg.Session.Roles,
	}

	service, err := svc.New(log, tax, store, notify.New(log))
	if err != nil {
		log.Error("Failed to init service", sl.Err(err))
		os.Exit(1)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics.ServiceName)
		router.Use(m.Middleware())
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
		log.Info("Metrics enabled", slog.String("path", cfg.Metrics.Path))
	}

	// Providers
	router.Post("/providers", providerRegister.New(log, service))
	router.Get("/providers", providerGet.New(log, service))
	router.Get("/providers/available", providerAvailable.New(log, service))
	router.Put("/providers/{providerId}", providerEdit.New(log, service))
	router.Delete("/providers/{providerId}", providerRemove.New(log, service))
	router.Put("/providers/{providerId}/presence", providerToggle.New(log, service))

	// Slots
	router.Put("/providers/{providerId}/slots/{slotId}/availability", slotToggle.New(log, service))
	router.Get("/providers/{providerId}/slots/available", slotAvailable.New(log, service))

	// Clients
	router.Post("/providers/{providerId}/slots/{slotId}/clients", clientAssign.New(log, service))
	router.Delete("/providers/{providerId}/slots/{slotId}/clients/{clientId}", clientRemove.New(log, service))
	router.Put("/providers/{providerId}/slots/{slotId}/clients/{clientId}/status", clientStatus.New(log, service))
	router.Put("/providers/{providerId}/slots/{slotId}/clients/{clientId}/name", clientRename.New(log, service))

	// Search
	router.Get("/search", searchGet.New(log, service))

	// Session
	router.Post("/session/close", sessionClose.New(log, service))
	router.Get("/session/history", sessionHistory.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
