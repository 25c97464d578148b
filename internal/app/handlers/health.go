package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// SessionCounter число активных сессий
type SessionCounter interface {
	Len(ctx context.Context) (int, error)
}

// HealthResponse ответ GET /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// HealthHandler обрабатывает запрос GET /healthz.
// Ошибка хранилища сессий отдается как 503.
func HealthHandler(log *slog.Logger, sessions SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.HealthHandler"
		logger := log.With(slog.String("op", op))

		n, err := sessions.Len(r.Context())
		if err != nil {
			logger.Error("failed to count sessions", slog.Any("error", err))
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Sessions: n}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
