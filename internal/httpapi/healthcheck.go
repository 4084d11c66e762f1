package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"airquality-dashboard/internal/utils"
)

// Pinger is satisfied by every store.ReadingStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	pinger Pinger
}

func NewHealthchecker(pinger Pinger) healthchecker {
	return &healthcheckerImpl{pinger: pinger}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		slog.Error("failed to check reading store", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check reading store")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, pinger Pinger) {
	healthchecker := NewHealthchecker(pinger)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
