package internal

import (
	"auroscope/internal/controllers"
	"auroscope/internal/models"
	"auroscope/internal/testutil"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mocks for routes test ---

type routeTestScheduler struct {
	runs   int
	closed bool
}

func (m *routeTestScheduler) Init() error                    { return nil }
func (m *routeTestScheduler) Stop()                          {}
func (m *routeTestScheduler) Close()                         { m.closed = true }
func (m *routeTestScheduler) Restore() error                 { return nil }
func (m *routeTestScheduler) Persist() error                 { return nil }
func (m *routeTestScheduler) RunNow(_ context.Context) error { m.runs++; return nil }
func (m *routeTestScheduler) LastSentDate() string           { return "" }

type routeTestReports struct{}

func (m *routeTestReports) GenerateReport(context.Context, models.Period, string) (string, string, *models.ReportStats, error) {
	return "", "", nil, nil
}
func (m *routeTestReports) GenerateCSVReport(context.Context, models.Period, string) (string, error) {
	return "", nil
}
func (m *routeTestReports) GeneratePDFReport(context.Context, models.Period, string) (string, error) {
	return "", nil
}
func (m *routeTestReports) Stats(context.Context, models.Period) (*models.ReportStats, models.DateRange, error) {
	return &models.ReportStats{}, models.DateRange{}, nil
}

func testMux(scheduler *routeTestScheduler) *http.ServeMux {
	ac := controllers.NewApiController(&testutil.MockLogger{}, &routeTestReports{}, scheduler, testutil.NewMockCache())
	hc := controllers.NewHealthController(scheduler)

	mux := http.NewServeMux()
	InitRoutes(ac, hc).Mount(mux)
	return mux
}

func TestInitRoutes_RegistersThreeRoutes(t *testing.T) {
	ac := controllers.NewApiController(&testutil.MockLogger{}, &routeTestReports{}, &routeTestScheduler{}, testutil.NewMockCache())
	hc := controllers.NewHealthController(&routeTestScheduler{})

	routes := InitRoutes(ac, hc).GetRoutes()
	require.Len(t, routes, 3)

	patterns := make([]string, len(routes))
	for i, r := range routes {
		patterns[i] = r.Pattern()
	}

	assert.Contains(t, patterns, "GET /health")
	assert.Contains(t, patterns, "GET /stats")
	assert.Contains(t, patterns, "POST /schedule/run")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	scheduler := &routeTestScheduler{}
	mux := testMux(scheduler)

	// GET /stats with POST should fail
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/stats", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /schedule/run with GET should fail
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/schedule/run", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Zero(t, scheduler.runs)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/schedule/run", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, scheduler.runs)
}

func TestInitRoutes_UnknownPath(t *testing.T) {
	rr := httptest.NewRecorder()
	testMux(&routeTestScheduler{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/list", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
