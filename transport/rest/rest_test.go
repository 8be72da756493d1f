package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenLister struct{}

func (brokenLister) ListActive(context.Context) ([]*entity.Session, error) {
	return nil, errors.New("redis down")
}

func newTestMux(t *testing.T, lister sessionLister) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMux(NewSessionsHandler(logger, lister))
}

func TestPing(t *testing.T) {
	mux := newTestMux(t, repository.NewMemorySessionRepository())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestListSessions(t *testing.T) {
	t.Run("Returns running sessions", func(t *testing.T) {
		// Given: one running session in the registry
		sessions := repository.NewMemorySessionRepository()
		require.NoError(t, sessions.CreateOrUpdate(context.Background(), entity.NewSession("s1", 1, entity.KindComputer, entity.NewBoard(entity.Rows, entity.Columns).Lines(), "peer")))
		mux := newTestMux(t, sessions)

		// When: the sessions endpoint is requested
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

		// Then: it is listed
		require.Equal(t, http.StatusOK, rec.Code)

		var body []entity.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "s1", body[0].ID)
		assert.Equal(t, entity.KindComputer, body[0].Kind)
	})

	t.Run("Registry failure is a server error", func(t *testing.T) {
		mux := newTestMux(t, brokenLister{})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Only GET is allowed", func(t *testing.T) {
		mux := newTestMux(t, repository.NewMemorySessionRepository())

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
