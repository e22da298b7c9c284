package schedule

import (
	"auroscope/internal/models"
	"fmt"
	"sync"
	"time"
)

const (
	clockLayout = "15:04"
	dayLayout   = "2006-01-02"
)

// DailyTrigger fires once per civil day, on the first check at or after the configured clock time.
type DailyTrigger struct {
	mu           sync.Mutex
	at           string
	lastSentDate string
}

func NewDailyTrigger(at string) (*DailyTrigger, error) {
	clock, err := time.Parse(clockLayout, at)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", at, err)
	}
	return &DailyTrigger{at: clock.Format(clockLayout)}, nil
}

// Due returns the civil day to send for, or false when it is too early or the day is already sent.
func (d *DailyTrigger) Due(now time.Time) (string, bool) {
	local := now.In(models.CivilZone)
	day := local.Format(dayLayout)

	d.mu.Lock()
	defer d.mu.Unlock()

	if local.Format(clockLayout) < d.at || d.lastSentDate == day {
		return "", false
	}
	return day, true
}

func (d *DailyTrigger) MarkSent(day string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSentDate = day
}

func (d *DailyTrigger) LastSentDate() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSentDate
}

func (d *DailyTrigger) At() string {
	return d.at
}
