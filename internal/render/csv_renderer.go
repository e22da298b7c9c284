// Package render turns fetched records into the CSV and PDF report files.
package render

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

const (
	csvDelimiter = ';'
	visitLayout  = "2006-01-02 15:04:05"
	utf8BOM      = "\uFEFF"
)

var csvHeader = []string{
	"Телефон",
	"Имя",
	"Дата визита",
	"Продолжительность",
	"Комплекс",
	"Аура",
	"Дата рождения",
	"Пол",
}

type CsvRendererInterface interface {
	Render(records []models.Record, lookup models.ClubLookup, path string) (string, error)
}

type CsvRenderer struct {
	logger providers.Logger
}

func NewCsvRenderer(logger providers.Logger) *CsvRenderer {
	return &CsvRenderer{logger: logger}
}

// Render writes every record, including those with an unknown club, to path.
func (r *CsvRenderer) Render(records []models.Record, lookup models.ClubLookup, path string) (string, error) {
	r.logger.Infof(providers.TypeReport, "Generating CSV report to: %s", path)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	rows, err := WriteCSV(file, records, lookup)
	if err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	r.logger.Infof(providers.TypeReport, "CSV report generated with %d rows", rows)
	return path, nil
}

// WriteCSV writes the BOM, the header and one row per record. It returns the number of data rows.
func WriteCSV(w io.Writer, records []models.Record, lookup models.ClubLookup) (int, error) {
	buf := bufio.NewWriter(w)
	if _, err := buf.WriteString(utf8BOM); err != nil {
		return 0, err
	}

	writer := csv.NewWriter(buf)
	writer.Comma = csvDelimiter

	if err := writer.Write(csvHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if err := writer.Write(csvRow(rec, lookup)); err != nil {
			return rows, err
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return rows, err
	}
	return rows, buf.Flush()
}

func csvRow(rec models.Record, lookup models.ClubLookup) []string {
	clubID := rec.ClubID()
	club, ok := lookup[clubID]
	if !ok {
		club = clubID
	}

	aura := ""
	if percent, ok := rec.AuraPercent(); ok {
		aura = strconv.FormatFloat(percent, 'f', -1, 64)
	}

	return []string{
		rec.String(models.FieldPhone),
		rec.String(models.FieldName),
		visitDate(rec.String(models.FieldDateVisit)),
		rec.String(models.FieldDuration),
		club,
		aura,
		rec.String(models.FieldBirthDate),
		rec.String(models.FieldSex),
	}
}

// visitDate shows an offset-qualified timestamp in civil time. Anything else passes through.
func visitDate(raw string) string {
	ts, ok := models.ParseZonedTime(raw)
	if !ok {
		return raw
	}
	return ts.In(models.CivilZone).Format(visitLayout)
}
