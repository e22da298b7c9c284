package services

import (
	"auroscope/internal/models"
	"auroscope/internal/nocodb"
	"auroscope/internal/providers"
	"auroscope/internal/render"
	"auroscope/internal/structures"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type ReportServiceInterface interface {
	GenerateReport(ctx context.Context, period models.Period, outputDir string) (csvPath, pdfPath string, stats *models.ReportStats, err error)
	GenerateCSVReport(ctx context.Context, period models.Period, outputDir string) (string, error)
	GeneratePDFReport(ctx context.Context, period models.Period, outputDir string) (string, error)
	Stats(ctx context.Context, period models.Period) (*models.ReportStats, models.DateRange, error)
}

type ReportService struct {
	store        nocodb.ClientInterface
	aggregator   AggregatorInterface
	csv          render.CsvRendererInterface
	chart        render.ChartRendererInterface
	createdField string
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	now          func() time.Time
}

func NewReportService(
	conf *structures.Config,
	store nocodb.ClientInterface,
	aggregator AggregatorInterface,
	csv render.CsvRendererInterface,
	chart render.ChartRendererInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *ReportService {
	return &ReportService{
		store:        store,
		aggregator:   aggregator,
		csv:          csv,
		chart:        chart,
		createdField: conf.NocoDB.CreatedField,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// GenerateReport runs the whole pipeline for period and writes both files into outputDir.
func (rs *ReportService) GenerateReport(ctx context.Context, period models.Period, outputDir string) (csvPath, pdfPath string, stats *models.ReportStats, err error) {
	started := time.Now()
	defer func() { rs.observe(period, started, err) }()

	dr := period.Resolve(rs.now())
	rs.logger.Infof(providers.TypeReport, "Generating report for period: %s", dr.Label)

	lookup, err := rs.store.FetchClubNames(ctx)
	if err != nil {
		return "", "", nil, err
	}

	records, err := rs.fetch(ctx, period, dr)
	if err != nil {
		return "", "", nil, err
	}

	stats = rs.aggregator.Aggregate(records, lookup)

	base := reportBaseName(dr)
	csvPath, err = rs.csv.Render(records, lookup, filepath.Join(outputDir, base+".csv"))
	if err != nil {
		return "", "", nil, fmt.Errorf("render csv: %w", err)
	}

	pdfPath, err = rs.chart.Render(records, filepath.Join(outputDir, base+".pdf"))
	if err != nil {
		return "", "", nil, fmt.Errorf("render pdf: %w", err)
	}

	rs.logger.Infof(providers.TypeReport, "Report %s ready: %d records, %d in known clubs", base, len(records), stats.TotalRecords)
	return csvPath, pdfPath, stats, nil
}

func (rs *ReportService) GenerateCSVReport(ctx context.Context, period models.Period, outputDir string) (path string, err error) {
	started := time.Now()
	defer func() { rs.observe(period, started, err) }()

	dr := period.Resolve(rs.now())
	rs.logger.Infof(providers.TypeReport, "Generating CSV report for period: %s", dr.Label)

	lookup, err := rs.store.FetchClubNames(ctx)
	if err != nil {
		return "", err
	}
	records, err := rs.fetch(ctx, period, dr)
	if err != nil {
		return "", err
	}

	path, err = rs.csv.Render(records, lookup, filepath.Join(outputDir, reportBaseName(dr)+".csv"))
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	return path, nil
}

// GeneratePDFReport needs no club names, so the lookup table is not fetched.
func (rs *ReportService) GeneratePDFReport(ctx context.Context, period models.Period, outputDir string) (path string, err error) {
	started := time.Now()
	defer func() { rs.observe(period, started, err) }()

	dr := period.Resolve(rs.now())
	rs.logger.Infof(providers.TypeReport, "Generating PDF report for period: %s", dr.Label)

	records, err := rs.fetch(ctx, period, dr)
	if err != nil {
		return "", err
	}

	path, err = rs.chart.Render(records, filepath.Join(outputDir, reportBaseName(dr)+".pdf"))
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	return path, nil
}

// Stats fetches and aggregates without writing any file.
func (rs *ReportService) Stats(ctx context.Context, period models.Period) (*models.ReportStats, models.DateRange, error) {
	dr := period.Resolve(rs.now())

	lookup, err := rs.store.FetchClubNames(ctx)
	if err != nil {
		return nil, dr, err
	}
	records, err := rs.fetch(ctx, period, dr)
	if err != nil {
		return nil, dr, err
	}
	return rs.aggregator.Aggregate(records, lookup), dr, nil
}

func (rs *ReportService) fetch(ctx context.Context, period models.Period, dr models.DateRange) ([]models.Record, error) {
	res, err := rs.store.FetchRange(ctx, rs.createdField, dr.Start, dr.End)
	if err != nil {
		return nil, err
	}
	if res.UsedFallback {
		rs.logger.Warnf(providers.TypeReport, "Records for %s were filtered locally: %v", dr.Label, res.FilterErr)
	}
	if len(res.Records) == 0 {
		rs.logger.Infof(providers.TypeReport, "No data found for the period %s", dr.Label)
	}
	rs.metrics.SetReportRecords(period.String(), len(res.Records))
	return res.Records, nil
}

func (rs *ReportService) observe(period models.Period, started time.Time, err error) {
	rs.metrics.IncReportsTotal(period.String(), err == nil)
	rs.metrics.ObserveReportDuration(period.String(), time.Since(started))
	if err != nil {
		rs.logger.Errorf(providers.TypeReport, "Report for %s failed: %v", period, err)
	}
}

// reportBaseName is unique per call so concurrent reports never share a file.
func reportBaseName(dr models.DateRange) string {
	return fmt.Sprintf("report_%s_%s", dr.Start.Format("20060102"), uuid.NewString()[:8])
}
