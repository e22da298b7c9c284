package services

import (
	"auroscope/internal/models"
	"auroscope/internal/structures"
	"cmp"
	"slices"
	"strings"
)

const (
	LowAuraLimit  = 60.0
	HighAuraLimit = 80.0

	statusDone    = "done"
	statusProcess = "process"
)

type AuraLevel int

const (
	AuraLow AuraLevel = iota
	AuraNormal
	AuraHigh
)

// ClassifyAura puts a percent into a bucket. Both 60 and 80 belong to the normal one.
func ClassifyAura(percent float64) AuraLevel {
	switch {
	case percent < LowAuraLimit:
		return AuraLow
	case percent <= HighAuraLimit:
		return AuraNormal
	default:
		return AuraHigh
	}
}

type AggregatorInterface interface {
	Aggregate(records []models.Record, lookup models.ClubLookup) *models.ReportStats
}

type Aggregator struct {
	createdField string
	updatedField string
}

func NewAggregator(conf *structures.Config) *Aggregator {
	return &Aggregator{
		createdField: conf.NocoDB.CreatedField,
		updatedField: conf.NocoDB.UpdatedField,
	}
}

type clubAccumulator struct {
	total   int
	clients map[string]struct{}
}

// Aggregate computes report statistics. Records whose club is missing from lookup are skipped entirely.
func (a *Aggregator) Aggregate(records []models.Record, lookup models.ClubLookup) *models.ReportStats {
	stats := &models.ReportStats{ClubStats: []models.ClubStats{}}

	clients := make(map[string]struct{})
	clubs := make(map[string]*clubAccumulator)
	var clubOrder []string

	var durationSum float64
	var durationCount int

	for _, r := range records {
		clubID := r.ClubID()
		if _, ok := lookup[clubID]; !ok {
			continue
		}
		stats.TotalRecords++

		phone := r.Phone()
		if phone != "" {
			clients[phone] = struct{}{}
		}

		if percent, ok := r.AuraPercent(); ok {
			switch ClassifyAura(percent) {
			case AuraLow:
				stats.LowAura++
			case AuraNormal:
				stats.NormalAura++
			case AuraHigh:
				stats.HighAura++
			}
		}

		club, ok := clubs[clubID]
		if !ok {
			club = &clubAccumulator{clients: make(map[string]struct{})}
			clubs[clubID] = club
			clubOrder = append(clubOrder, clubID)
		}
		club.total++
		if phone != "" {
			club.clients[phone] = struct{}{}
		}

		if seconds, ok := a.generationSeconds(r); ok {
			durationSum += seconds
			durationCount++
		}

		switch strings.ToLower(strings.TrimSpace(r.String(models.FieldStatus))) {
		case statusDone:
			stats.DoneCount++
		case statusProcess:
			stats.ProcessCount++
		}
	}

	stats.UniqueClients = len(clients)
	if durationCount > 0 {
		stats.AvgGenerationTime = durationSum / float64(durationCount)
	}
	stats.DonePercentage = stats.Share(stats.DoneCount)
	stats.ProcessPercentage = stats.Share(stats.ProcessCount)
	stats.ClubStats = buildClubStats(clubOrder, clubs, lookup)

	return stats
}

func (a *Aggregator) generationSeconds(r models.Record) (float64, bool) {
	created, ok := r.Time(a.createdField)
	if !ok {
		return 0, false
	}
	updated, ok := r.Time(a.updatedField)
	if !ok {
		return 0, false
	}
	return updated.Sub(created).Seconds(), true
}

func buildClubStats(order []string, clubs map[string]*clubAccumulator, lookup models.ClubLookup) []models.ClubStats {
	sum := 0
	for _, id := range order {
		sum += clubs[id].total
	}

	out := make([]models.ClubStats, 0, len(order))
	for _, id := range order {
		club := clubs[id]
		var percentage float64
		if sum > 0 {
			percentage = float64(club.total) / float64(sum) * 100
		}
		out = append(out, models.ClubStats{
			ClubID:           id,
			ClubName:         lookup[id],
			TotalGenerations: club.total,
			UniqueClients:    len(club.clients),
			Percentage:       percentage,
		})
	}

	// ties keep first-seen order
	slices.SortStableFunc(out, func(a, b models.ClubStats) int {
		return cmp.Compare(b.TotalGenerations, a.TotalGenerations)
	})
	return out
}
