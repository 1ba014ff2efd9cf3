package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/league/internal/common"
)

func TestCorrelationIDPropagated(t *testing.T) {
	srv := newTestServer(&mockLeagueService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get("X-Correlation-ID"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, rec.Header().Get("X-Correlation-ID"), 8)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&mockLeagueService{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/groups/club", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := common.NewSilentLogger()
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	applyMiddleware(panicky, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSplitGroupPath(t *testing.T) {
	tests := []struct {
		path        string
		wantGroup   string
		wantSubpath string
	}{
		{"/api/groups/club", "club", ""},
		{"/api/groups/club/", "club", ""},
		{"/api/groups/club/chart.png", "club", "chart.png"},
		{"/api/groups/club/members/alice/performance", "club", "members/alice/performance"},
		{"/api/groups/club/seasons/", "club", "seasons"},
		{"/api/groups/", "", ""},
		{"/api/groups", "", ""},
		{"/api/health", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			group, sub := splitGroupPath(tt.path)
			assert.Equal(t, tt.wantGroup, group)
			assert.Equal(t, tt.wantSubpath, sub)
		})
	}
}

func TestRequestLogCarriesGroupID(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("trace", &buf)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})

	rec := httptest.NewRecorder()
	applyMiddleware(notFound, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups/club/leaderboard", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), `"group_id":"club"`)
	assert.Contains(t, buf.String(), `"status":404`)
}
