package controllers

import (
	"auroscope/internal/models"
	"auroscope/internal/nocodb"
	"auroscope/internal/testutil"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(reports *mockReports, scheduler *mockScheduler) (*ApiController, *testutil.MockCache) {
	cache := testutil.NewMockCache()
	return NewApiController(&testutil.MockLogger{}, reports, scheduler, cache), cache
}

func TestGetStats_DefaultPeriod(t *testing.T) {
	reports := &mockReports{}
	ac, _ := newTestController(reports, &mockScheduler{})

	rr := httptest.NewRecorder()
	ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, []models.Period{models.Today}, reports.periods)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "today", resp["period"])
	assert.Equal(t, "Сегодня (01.01.2024)", resp["label"])
	assert.Equal(t, "2024-01-01T00:00:00+03:00", resp["start"])

	stats := resp["stats"].(map[string]any)
	assert.Equal(t, float64(5), stats["totalRecords"])
	assert.Equal(t, float64(5), stats["highAura"])
}

func TestGetStats_ExplicitPeriod(t *testing.T) {
	reports := &mockReports{}
	ac, _ := newTestController(reports, &mockScheduler{})

	rr := httptest.NewRecorder()
	ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats?period=Quarter", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []models.Period{models.Last90Days}, reports.periods)
}

func TestGetStats_UnknownPeriod(t *testing.T) {
	reports := &mockReports{}
	ac, _ := newTestController(reports, &mockScheduler{})

	rr := httptest.NewRecorder()
	ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats?period=decade", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown period")
	assert.Empty(t, reports.periods)
}

func TestGetStats_StoreFailure(t *testing.T) {
	reports := &mockReports{statsErr: fmt.Errorf("fetch records: %w: 500 - boom", nocodb.ErrUnexpectedStatus)}
	ac, cache := newTestController(reports, &mockScheduler{})

	rr := httptest.NewRecorder()
	ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats?period=week", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Empty(t, cache.Data)
}

func TestGetStats_ServedFromCache(t *testing.T) {
	reports := &mockReports{}
	ac, cache := newTestController(reports, &mockScheduler{})

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats?period=month", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	assert.Len(t, reports.periods, 1)
	assert.Contains(t, cache.Data, "stats:month")
}

func TestGetStats_CachedBytesReturnedAsIs(t *testing.T) {
	ac, cache := newTestController(&mockReports{}, &mockScheduler{})
	cache.Set("stats:year", []byte(`{"cached":true}`))

	rr := httptest.NewRecorder()
	ac.GetStats(rr, httptest.NewRequest(http.MethodGet, "/stats?period=year", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cached":true}`, rr.Body.String())
}

func TestRunSchedule_Success(t *testing.T) {
	scheduler := &mockScheduler{lastSent: "2024-03-10"}
	ac, _ := newTestController(&mockReports{}, scheduler)

	rr := httptest.NewRecorder()
	ac.RunSchedule(rr, httptest.NewRequest(http.MethodPost, "/schedule/run", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, scheduler.runs)
	assert.JSONEq(t, `{"status":"sent","last_sent_date":"2024-03-10"}`, rr.Body.String())
}

func TestRunSchedule_Failure(t *testing.T) {
	scheduler := &mockScheduler{runErr: errors.New("telegram down")}
	ac, _ := newTestController(&mockReports{}, scheduler)

	rr := httptest.NewRecorder()
	ac.RunSchedule(rr, httptest.NewRequest(http.MethodPost, "/schedule/run", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
