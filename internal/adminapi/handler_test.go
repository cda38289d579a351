package adminapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/hydrarelay/internal/adminapi"
	"github.com/jroosing/hydrarelay/internal/dnswire"
	"github.com/jroosing/hydrarelay/internal/relay"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	table := relay.LocalTable{
		"router.lan": {{Name: "router.lan", Type: dnswire.TypeA, Class: dnswire.ClassInternet, TTL: 300, Data: []byte{192, 168, 1, 1}}},
	}
	correlation := relay.NewCorrelationTable(10, time.Second)
	stats := &relay.Stats{}
	stats.QueriesUDP.Add(3)

	h := adminapi.New("test-instance", table, correlation, stats)
	adminapi.RegisterRoutes(engine, h)
	return engine
}

func TestHealthz(t *testing.T) {
	engine := newTestEngine(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp adminapi.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-instance", resp.InstanceID)
}

func TestStats(t *testing.T) {
	engine := newTestEngine(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp adminapi.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(3), resp.Queries.QueriesUDP)
	assert.Equal(t, 0, resp.CorrelationEntries)
}

func TestHosts(t *testing.T) {
	engine := newTestEngine(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hosts", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp adminapi.HostsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Entries, "router.lan")
	assert.Equal(t, []string{"192.168.1.1"}, resp.Entries["router.lan"])
}
