package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

type Period int

const (
	Today Period = iota
	Yesterday
	Last7Days
	Last30Days
	Last90Days
	Last180Days
	Last365Days
)

var ErrUnknownPeriod = errors.New("unknown period")

const labelDateLayout = "02.01.2006"

// CivilZone is the zone every day boundary and label is computed in.
var CivilZone = mustLoadLocation("Europe/Moscow")

var periodNames = map[Period]string{
	Today:       "today",
	Yesterday:   "yesterday",
	Last7Days:   "week",
	Last30Days:  "month",
	Last90Days:  "quarter",
	Last180Days: "halfyear",
	Last365Days: "year",
}

var periodDays = map[Period]int{
	Today:       1,
	Yesterday:   1,
	Last7Days:   7,
	Last30Days:  30,
	Last90Days:  90,
	Last180Days: 180,
	Last365Days: 365,
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// Periods returns every period in command order.
func Periods() []Period {
	return []Period{Today, Yesterday, Last7Days, Last30Days, Last90Days, Last180Days, Last365Days}
}

func ParsePeriod(s string) (Period, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range periodNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("period(%d)", int(p))
}

func (p Period) Days() int {
	return periodDays[p]
}

// Resolve maps the period to a closed range of whole civil days ending today
// (or yesterday), using rolling windows for the multi-day periods.
func (p Period) Resolve(now time.Time) DateRange {
	local := now.In(CivilZone)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, CivilZone)

	switch p {
	case Today:
		return DateRange{
			Start: today,
			End:   endOfDay(today),
			Label: "Сегодня (" + today.Format(labelDateLayout) + ")",
		}
	case Yesterday:
		day := today.AddDate(0, 0, -1)
		return DateRange{
			Start: day,
			End:   endOfDay(day),
			Label: "Вчера (" + day.Format(labelDateLayout) + ")",
		}
	}

	n := p.Days()
	if n < 1 {
		n = 1
	}
	start := today.AddDate(0, 0, -(n - 1))
	end := endOfDay(today)
	return DateRange{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("Последние %d дней (%s - %s)", n, start.Format(labelDateLayout), end.Format(labelDateLayout)),
	}
}

func endOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, day.Location())
}
