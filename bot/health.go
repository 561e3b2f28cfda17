package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HealthServer exposes a liveness endpoint for process supervisors.
type HealthServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewHealthServer creates a health server listening on addr.
func NewHealthServer(addr string) *HealthServer {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return &HealthServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: slog.Default().With("component", "health"),
	}
}

// Start serves until Shutdown is called. It blocks, so run it on its own
// goroutine.
func (h *HealthServer) Start() error {
	h.logger.Info("health endpoint listening", "addr", h.server.Addr)
	err := h.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}
