package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type pinger struct{ err error }

func (p pinger) Health(context.Context) error { return p.err }

func TestHealthReportsDatabaseState(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"ok", nil, http.StatusOK, `"status":"ok"`},
		{"degraded", errors.New("connection refused"), http.StatusServiceUnavailable, `"status":"degraded"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			HealthHandler{DB: pinger{err: tc.err}}.RegisterRoutes(r)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}
