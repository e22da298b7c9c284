package render

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"auroscope/internal/structures"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"

	reportTitle  = "AuroScope Report"
	chartTitle   = "Generations by hour"
	chartCaption = "Number of aura generations per hour of day (0-23 h, Moscow time)."
	chartHint    = "Helps to spot peak hours and plan the workload of the complex."
)

type rgb struct{ r, g, b int }

var (
	barColor  = rgb{38, 166, 154}
	gridColor = rgb{230, 230, 230}
	axisColor = rgb{0, 0, 0}
)

type ChartRendererInterface interface {
	Render(records []models.Record, path string) (string, error)
}

type ChartRenderer struct {
	createdField string
	logger       providers.Logger
}

func NewChartRenderer(conf *structures.Config, logger providers.Logger) *ChartRenderer {
	return &ChartRenderer{
		createdField: conf.NocoDB.CreatedField,
		logger:       logger,
	}
}

// Render draws the hourly histogram of record creation times on a single A4 page.
func (r *ChartRenderer) Render(records []models.Record, path string) (string, error) {
	r.logger.Infof(providers.TypeReport, "Generating PDF report to: %s", path)

	layout := NewChartLayout(HourlyCounts(records, r.createdField))
	pdf := drawChart(layout)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}

	r.logger.Infof(providers.TypeReport, "PDF report generated, peak hour count %d", layout.Max)
	return path, nil
}

func drawChart(layout ChartLayout) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reportTitle, false)
	pdf.SetCreator("auroscope", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 24)
	text(pdf, 20, 280, reportTitle)

	pdf.SetFont(fontFamily, "B", 14)
	text(pdf, chartX, chartY+chartHeight+10, chartTitle)
	pdf.SetFont(fontFamily, "", 9)
	text(pdf, chartX, chartY+chartHeight+5, chartCaption)
	text(pdf, chartX, chartY+chartHeight+0.5, chartHint)

	setDraw(pdf, axisColor)
	pdf.SetLineWidth(0.35)
	line(pdf, chartX, chartY, chartX+chartWidth, chartY)
	line(pdf, chartX, chartY, chartX, chartY+chartHeight)

	setDraw(pdf, gridColor)
	pdf.SetLineWidth(0.1)
	for _, y := range layout.GridY {
		line(pdf, chartX, y, chartX+chartWidth, y)
	}

	setDraw(pdf, barColor)
	pdf.SetFillColor(barColor.r, barColor.g, barColor.b)
	pdf.SetLineWidth(0.2)
	for _, bar := range layout.Bars {
		// fpdf anchors rectangles at the top-left corner
		pdf.Rect(bar.X, pageHeight-(bar.Y+bar.Height), bar.Width, bar.Height, "FD")
	}

	pdf.SetTextColor(axisColor.r, axisColor.g, axisColor.b)
	pdf.SetFont(fontFamily, "", 6)
	for _, l := range layout.HourLabels {
		text(pdf, l.X-pdf.GetStringWidth(l.Text)/2, l.Y, l.Text)
	}

	pdf.SetFont(fontFamily, "", 7)
	for _, l := range layout.ValueLabel {
		text(pdf, l.X, l.Y, l.Text)
	}

	return pdf
}

func setDraw(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetDrawColor(c.r, c.g, c.b)
}

// text and line take bottom-origin coordinates.
func text(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x, pageHeight-y, s)
}

func line(pdf *fpdf.Fpdf, x1, y1, x2, y2 float64) {
	pdf.Line(x1, pageHeight-y1, x2, pageHeight-y2)
}
