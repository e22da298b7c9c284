package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"today":     Today,
		"yesterday": Yesterday,
		"week":      Last7Days,
		"month":     Last30Days,
		"quarter":   Last90Days,
		"halfyear":  Last180Days,
		"year":      Last365Days,
		" Week ":    Last7Days,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParsePeriod_Unknown(t *testing.T) {
	_, err := ParsePeriod("fortnight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPeriod))
}

func TestPeriod_StringRoundTrip(t *testing.T) {
	for _, p := range Periods() {
		parsed, err := ParsePeriod(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestResolve_Today(t *testing.T) {
	// 22:30 UTC is already the next civil day in Moscow
	now := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)
	r := Today.Resolve(now)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, CivilZone), r.Start)
	assert.Equal(t, time.Date(2024, 3, 11, 23, 59, 59, 0, CivilZone), r.End)
	assert.Equal(t, "Сегодня (11.03.2024)", r.Label)
	assert.Equal(t, time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC), r.Start.UTC())
}

func TestResolve_Yesterday(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, CivilZone)
	r := Yesterday.Resolve(now)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, CivilZone), r.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, CivilZone), r.End)
	assert.Equal(t, "Вчера (29.02.2024)", r.Label)
}

func TestResolve_RollingWindows(t *testing.T) {
	now := time.Date(2024, 12, 31, 15, 0, 0, 0, CivilZone)
	end := time.Date(2024, 12, 31, 23, 59, 59, 0, CivilZone)

	cases := []struct {
		period Period
		start  time.Time
		label  string
	}{
		{Last7Days, time.Date(2024, 12, 25, 0, 0, 0, 0, CivilZone), "Последние 7 дней (25.12.2024 - 31.12.2024)"},
		{Last30Days, time.Date(2024, 12, 2, 0, 0, 0, 0, CivilZone), "Последние 30 дней (02.12.2024 - 31.12.2024)"},
		{Last90Days, time.Date(2024, 10, 3, 0, 0, 0, 0, CivilZone), "Последние 90 дней (03.10.2024 - 31.12.2024)"},
		{Last180Days, time.Date(2024, 7, 5, 0, 0, 0, 0, CivilZone), "Последние 180 дней (05.07.2024 - 31.12.2024)"},
		{Last365Days, time.Date(2024, 1, 2, 0, 0, 0, 0, CivilZone), "Последние 365 дней (02.01.2024 - 31.12.2024)"},
	}
	for _, c := range cases {
		r := c.period.Resolve(now)
		assert.Equal(t, c.start, r.Start, c.period.String())
		assert.Equal(t, end, r.End, c.period.String())
		assert.Equal(t, c.label, r.Label, c.period.String())
	}
}

func TestResolve_StartBeforeEndAndDeterministic(t *testing.T) {
	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 20, 59, 59, 0, time.UTC),
		time.Date(2024, 6, 30, 21, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 23, 59, 59, 999, CivilZone),
	}
	for _, now := range instants {
		for _, p := range Periods() {
			first := p.Resolve(now)
			second := p.Resolve(now)
			assert.False(t, first.Start.After(first.End), "%s at %s", p, now)
			assert.Equal(t, first, second)
			assert.Zero(t, first.End.Nanosecond())
		}
	}
}

func TestResolve_IgnoresHostZone(t *testing.T) {
	instant := time.Date(2024, 5, 5, 23, 0, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	assert.Equal(t, Today.Resolve(instant), Today.Resolve(instant.In(tokyo)))
}
