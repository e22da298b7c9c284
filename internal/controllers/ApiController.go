package controllers

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"auroscope/internal/schedule/interfaces"
	"auroscope/internal/services"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

const defaultStatsPeriod = models.Today

type ApiController struct {
	logger    providers.Logger
	reports   services.ReportServiceInterface
	scheduler interfaces.SchedulerInterface
	cache     providers.CacheProviderInterface
}

type statsResponse struct {
	Period string              `json:"period"`
	Label  string              `json:"label"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Stats  *models.ReportStats `json:"stats"`
}

type runResponse struct {
	Status       string `json:"status"`
	LastSentDate string `json:"last_sent_date,omitempty"`
}

func NewApiController(logger providers.Logger, reports services.ReportServiceInterface, scheduler interfaces.SchedulerInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		reports:   reports,
		scheduler: scheduler,
		cache:     cache,
	}
}

func getPeriod(r *http.Request) (models.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return defaultStatsPeriod, nil
	}
	return models.ParsePeriod(raw)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// upstreamError is returned by compute when the record store failed, as opposed to local encoding errors.
type upstreamError struct{ err error }

func (e upstreamError) Error() string { return e.err.Error() }
func (e upstreamError) Unwrap() error { return e.err }

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		var upstream upstreamError
		if errors.As(err, &upstream) {
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// GetStats aggregates the period without rendering any file.
func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	period, err := getPeriod(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ac.serveFromCacheOrCompute(w, "stats:"+period.String(), func() (any, error) {
		stats, dr, err := ac.reports.Stats(r.Context(), period)
		if err != nil {
			ac.logger.Errorf(providers.TypeGet, "Stats for %s failed: %s", period, err)
			return nil, upstreamError{err: err}
		}
		return &statsResponse{
			Period: period.String(),
			Label:  dr.Label,
			Start:  dr.Start,
			End:    dr.End,
			Stats:  stats,
		}, nil
	})
}

// RunSchedule broadcasts the scheduled report right away. The daily trigger is left untouched.
func (ac *ApiController) RunSchedule(w http.ResponseWriter, r *http.Request) {
	if err := ac.scheduler.RunNow(r.Context()); err != nil {
		ac.logger.Errorf(providers.TypePost, "Manual scheduled run failed: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	gson, err := json.Marshal(runResponse{Status: "sent", LastSentDate: ac.scheduler.LastSentDate()})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}
