package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

type sessionLister interface {
	ListActive(ctx context.Context) ([]*entity.Session, error)
}

type SessionsHandler interface {
	ListSessions(w http.ResponseWriter, r *http.Request)
}

type sessionsHandler struct {
	logger   *slog.Logger
	sessions sessionLister
}

func NewSessionsHandler(logger *slog.Logger, sessions sessionLister) SessionsHandler {
	return &sessionsHandler{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

// ListSessions - writes the running sessions as a JSON array.
func (that *sessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	active, err := that.sessions.ListActive(r.Context())
	if err != nil {
		that.logger.Error("failed to list sessions", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(active); err != nil {
		that.logger.Error("failed to write sessions", "error", err)
	}
}
