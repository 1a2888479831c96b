package http

import (
	"net/http"

	"server-runner/internal/auth"
	"server-runner/internal/backups"
	"server-runner/internal/containers"
	"server-runner/internal/serverlogs"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/metrics"
	"server-runner/internal/syncs"

	"github.com/go-chi/chi/v5"
)

// Services are the domain services the router dispatches to.
type Services struct {
	Auth       auth.AuthService
	Backups    backups.BackupService
	Containers containers.ContainerService
	Logs       serverlogs.LogReader
	Sync       syncs.SyncService
}

type RouterOptions struct {
	AllowedOrigin  string
	MaxUploadBytes int64
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services Services, opts RouterOptions, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger, opts.AllowedOrigin)

	// Initialize handlers
	loginHandler := NewLoginHandler(services.Auth)
	syncHandler := NewSyncHandler(services.Sync)
	containerHandler := newContainerHandler(services.Containers)
	serverLogHandler := newServerLogHandler(services.Logs)
	backupHandler := newBackupHandler(services.Backups, opts.MaxUploadBytes)

	// Public routes
	router.Post("/login", errorHandlingAdapter(loginHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(mwAuthenticate(services.Auth))

		r.Post("/start", errorHandlingAdapter(appHandlerFunc(containerHandler.start)))
		r.Post("/stop", errorHandlingAdapter(appHandlerFunc(containerHandler.stop)))
		r.Get("/status", errorHandlingAdapter(appHandlerFunc(containerHandler.status)))

		r.Get("/logs", errorHandlingAdapter(appHandlerFunc(serverLogHandler.lines)))
		r.Get("/logs/stream", errorHandlingAdapter(appHandlerFunc(serverLogHandler.stream)))

		r.Post("/backup", errorHandlingAdapter(appHandlerFunc(backupHandler.create)))
		r.Get("/backup", errorHandlingAdapter(appHandlerFunc(backupHandler.list)))
		r.Delete("/backup/delete", errorHandlingAdapter(appHandlerFunc(backupHandler.delete)))
		r.Post("/backup/load", errorHandlingAdapter(appHandlerFunc(backupHandler.load)))
		r.Get("/backup/history", errorHandlingAdapter(appHandlerFunc(backupHandler.history)))

		r.Post("/sync", errorHandlingAdapter(syncHandler))
	})

	return router
}
