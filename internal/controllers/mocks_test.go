package controllers

import (
	"auroscope/internal/models"
	"context"
	"time"
)

type mockScheduler struct {
	lastSent string
	runErr   error
	runs     int
}

func (m *mockScheduler) Init() error    { return nil }
func (m *mockScheduler) Stop()          {}
func (m *mockScheduler) Close()         {}
func (m *mockScheduler) Restore() error { return nil }
func (m *mockScheduler) Persist() error { return nil }
func (m *mockScheduler) RunNow(_ context.Context) error {
	m.runs++
	return m.runErr
}
func (m *mockScheduler) LastSentDate() string { return m.lastSent }

type mockReports struct {
	statsErr error
	periods  []models.Period
}

func (m *mockReports) GenerateReport(context.Context, models.Period, string) (string, string, *models.ReportStats, error) {
	return "", "", nil, nil
}

func (m *mockReports) GenerateCSVReport(context.Context, models.Period, string) (string, error) {
	return "", nil
}

func (m *mockReports) GeneratePDFReport(context.Context, models.Period, string) (string, error) {
	return "", nil
}

func (m *mockReports) Stats(_ context.Context, period models.Period) (*models.ReportStats, models.DateRange, error) {
	m.periods = append(m.periods, period)
	if m.statsErr != nil {
		return nil, models.DateRange{}, m.statsErr
	}
	dr := models.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, models.CivilZone),
		End:   time.Date(2024, 1, 1, 23, 59, 59, 0, models.CivilZone),
		Label: "Сегодня (01.01.2024)",
	}
	return &models.ReportStats{TotalRecords: 5, HighAura: 5}, dr, nil
}
