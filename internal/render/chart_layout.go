package render

import (
	"auroscope/internal/models"
	"math"
	"strconv"
)

// Chart geometry in millimetres with the origin at the bottom-left corner of an A4 page.
const (
	pageHeight = 297.0

	chartX      = 10.0
	chartY      = 220.0
	chartWidth  = 180.0
	chartHeight = 36.0

	hours        = 24
	barFill      = 0.85
	barInset     = 0.075
	gridLines    = 3
	hourLabelGap = 3.0
	valueLabelX  = chartX - 8.0
)

type Bar struct {
	Hour   int
	Count  int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type Label struct {
	Text string
	X    float64
	Y    float64
}

// ChartLayout is everything the histogram page draws, computed up front.
type ChartLayout struct {
	Counts     [hours]int
	Max        int
	BarWidth   float64
	Bars       []Bar
	HourLabels []Label
	GridY      []float64
	ValueLabel []Label
}

// HourlyCounts buckets records by the civil hour of field. Unparsable timestamps are skipped.
func HourlyCounts(records []models.Record, field string) [hours]int {
	var counts [hours]int
	for _, r := range records {
		ts, ok := r.ZonedTime(field)
		if !ok {
			continue
		}
		counts[ts.In(models.CivilZone).Hour()]++
	}
	return counts
}

func NewChartLayout(counts [hours]int) ChartLayout {
	layout := ChartLayout{
		Counts:   counts,
		Max:      1,
		BarWidth: chartWidth / hours * barFill,
	}
	for _, c := range counts {
		layout.Max = max(layout.Max, c)
	}

	slot := chartWidth / hours
	for hour, count := range counts {
		x := chartX + float64(hour)*slot + slot*barInset
		layout.HourLabels = append(layout.HourLabels, Label{
			Text: strconv.Itoa(hour),
			X:    x + layout.BarWidth/2,
			Y:    chartY - hourLabelGap,
		})
		if count == 0 {
			continue
		}
		layout.Bars = append(layout.Bars, Bar{
			Hour:   hour,
			Count:  count,
			X:      x,
			Y:      chartY,
			Width:  layout.BarWidth,
			Height: float64(count) / float64(layout.Max) * chartHeight,
		})
	}

	step := chartHeight / gridLines
	for i := 0; i <= gridLines; i++ {
		y := chartY + step*float64(i)
		if i > 0 {
			layout.GridY = append(layout.GridY, y)
		}
		value := int(math.Floor(float64(layout.Max) / gridLines * float64(i)))
		layout.ValueLabel = append(layout.ValueLabel, Label{
			Text: strconv.Itoa(value),
			X:    valueLabelX,
			Y:    y - 1,
		})
	}

	return layout
}
