package services

import (
	"auroscope/internal/models"
	"auroscope/internal/nocodb"
	"auroscope/internal/render"
	"auroscope/internal/testutil"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records     []models.Record
	lookup      models.ClubLookup
	rangeErr    error
	lookupErr   error
	fallback    bool
	lookupCalls int
	field       string
	start, end  time.Time
}

func (f *fakeStore) FetchAll(_ context.Context) ([]models.Record, error) {
	return f.records, nil
}

func (f *fakeStore) FetchFiltered(_ context.Context, _ string, _, _ time.Time) ([]models.Record, error) {
	return f.records, nil
}

func (f *fakeStore) FetchRange(_ context.Context, field string, start, end time.Time) (*nocodb.FetchResult, error) {
	f.field, f.start, f.end = field, start, end
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	res := &nocodb.FetchResult{Records: f.records, UsedFallback: f.fallback}
	if f.fallback {
		res.FilterErr = errors.New("filter rejected")
	}
	return res, nil
}

func (f *fakeStore) FetchClubNames(_ context.Context) (models.ClubLookup, error) {
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.lookup, nil
}

var fixedNow = time.Date(2024, 1, 1, 15, 0, 0, 0, models.CivilZone)

func newReportService(store *fakeStore) (*ReportService, *testutil.MockMetrics, *testutil.MockLogger) {
	conf := aggregatorConfig()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	rs := NewReportService(conf, store, NewAggregator(conf), render.NewCsvRenderer(logger), render.NewChartRenderer(conf, logger), logger, metrics)
	rs.now = func() time.Time { return fixedNow }
	return rs, metrics, logger
}

func pipelineRecords() []models.Record {
	return []models.Record{
		{
			"phone":      "79990001122",
			"name":       "A",
			"date_visit": "2024-01-01 10:00:00+0000",
			"duration":   30,
			"club_id":    "c1",
			"text_aura":  map[string]any{"percent": "91%"},
			"birth_date": "1990-01-01",
			"sex":        "M",
			"CreatedAt1": "2024-01-01 10:00:00+00:00",
			"UpdatedAt":  "2024-01-01 10:00:40+00:00",
			"status":     "done",
		},
		{
			"phone":      "79990003344",
			"club_id":    "unknown",
			"text_aura":  map[string]any{"percent": "10"},
			"CreatedAt1": "2024-01-01 11:00:00+00:00",
		},
	}
}

func TestGenerateReport_Pipeline(t *testing.T) {
	store := &fakeStore{records: pipelineRecords(), lookup: models.ClubLookup{"c1": "ClubOne"}}
	rs, metrics, _ := newReportService(store)
	dir := t.TempDir()

	csvPath, pdfPath, stats, err := rs.GenerateReport(context.Background(), models.Today, dir)
	require.NoError(t, err)

	assert.Equal(t, "CreatedAt1", store.field)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, models.CivilZone), store.start)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 0, models.CivilZone), store.end)

	assert.Equal(t, dir, filepath.Dir(csvPath))
	assert.True(t, strings.HasPrefix(filepath.Base(csvPath), "report_20240101_"))
	assert.Equal(t, strings.TrimSuffix(csvPath, ".csv"), strings.TrimSuffix(pdfPath, ".pdf"))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "79990001122;A;2024-01-01 13:00:00;30;ClubOne;91;1990-01-01;M")
	assert.Contains(t, content, "79990003344;;;;unknown;10;;")

	_, err = os.Stat(pdfPath)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalRecords)
	assert.Equal(t, 1, stats.HighAura)
	assert.Equal(t, 0, stats.LowAura)
	assert.InDelta(t, 40.0, stats.AvgGenerationTime, 1e-9)

	assert.Equal(t, 1, metrics.ReportsOK)
	assert.Equal(t, 2, metrics.ReportRecords["today"])
}

func TestGenerateReport_EmptyPeriod(t *testing.T) {
	store := &fakeStore{lookup: models.ClubLookup{"c1": "ClubOne"}}
	rs, _, logger := newReportService(store)

	csvPath, pdfPath, stats, err := rs.GenerateReport(context.Background(), models.Last7Days, t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFТелефон;Имя;Дата визита;Продолжительность;Комплекс;Аура;Дата рождения;Пол\n", string(data))

	info, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Equal(t, 0, stats.TotalRecords)
	assert.Zero(t, stats.AvgGenerationTime)
	assert.True(t, logger.Contains("info", "No data found"))
}

func TestGenerateReport_UniqueFileNames(t *testing.T) {
	store := &fakeStore{lookup: models.ClubLookup{}}
	rs, _, _ := newReportService(store)
	dir := t.TempDir()

	first, _, _, err := rs.GenerateReport(context.Background(), models.Today, dir)
	require.NoError(t, err)
	second, _, _, err := rs.GenerateReport(context.Background(), models.Today, dir)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateReport_LookupErrorIsFatal(t *testing.T) {
	store := &fakeStore{lookupErr: nocodb.ErrUnexpectedStatus}
	rs, metrics, logger := newReportService(store)
	dir := t.TempDir()

	_, _, _, err := rs.GenerateReport(context.Background(), models.Today, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, nocodb.ErrUnexpectedStatus))

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
	assert.Equal(t, 1, metrics.ReportsFailed)
	assert.True(t, logger.Contains("error", "Report for today failed"))
}

func TestGenerateReport_FetchErrorIsFatal(t *testing.T) {
	store := &fakeStore{lookup: models.ClubLookup{}, rangeErr: errors.New("fetch records: boom")}
	rs, _, _ := newReportService(store)

	_, _, _, err := rs.GenerateReport(context.Background(), models.Yesterday, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGenerateReport_RenderErrorIsFatal(t *testing.T) {
	store := &fakeStore{lookup: models.ClubLookup{}}
	rs, _, _ := newReportService(store)

	_, _, _, err := rs.GenerateReport(context.Background(), models.Today, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render csv")
}

func TestGenerateReport_FallbackIsLoggedNotFailed(t *testing.T) {
	store := &fakeStore{records: pipelineRecords(), lookup: models.ClubLookup{"c1": "ClubOne"}, fallback: true}
	rs, metrics, logger := newReportService(store)

	_, _, stats, err := rs.GenerateReport(context.Background(), models.Today, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalRecords)
	assert.True(t, logger.Contains("warn", "filtered locally"))
	assert.Equal(t, 1, metrics.ReportsOK)
}

func TestGenerateCSVReport(t *testing.T) {
	store := &fakeStore{records: pipelineRecords(), lookup: models.ClubLookup{"c1": "ClubOne"}}
	rs, _, _ := newReportService(store)

	path, err := rs.GenerateCSVReport(context.Background(), models.Today, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))
	assert.Equal(t, 1, store.lookupCalls)
}

func TestGeneratePDFReport_SkipsLookup(t *testing.T) {
	store := &fakeStore{records: pipelineRecords(), lookupErr: errors.New("must not be called")}
	rs, _, _ := newReportService(store)

	path, err := rs.GeneratePDFReport(context.Background(), models.Last30Days, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))
	assert.Zero(t, store.lookupCalls)
}

func TestStats(t *testing.T) {
	store := &fakeStore{records: pipelineRecords(), lookup: models.ClubLookup{"c1": "ClubOne"}}
	rs, _, _ := newReportService(store)

	stats, dr, err := rs.Stats(context.Background(), models.Today)
	require.NoError(t, err)
	assert.Equal(t, "Сегодня (01.01.2024)", dr.Label)
	assert.Equal(t, 1, stats.TotalRecords)
	require.Len(t, stats.ClubStats, 1)
	assert.Equal(t, "ClubOne", stats.ClubStats[0].ClubName)
}
