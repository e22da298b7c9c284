package schedule

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"auroscope/internal/schedule/interfaces"
	"auroscope/internal/structures"
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	defaultPollInterval = time.Minute
	runTimeout          = 10 * time.Minute
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	broadcaster interfaces.BroadcasterInterface
	fileManager *FileManager
	trigger     *DailyTrigger
	period      models.Period
	cron        *cron.Cron
	opsMu       sync.Mutex
	state       State
	ctx         context.Context
	cancel      context.CancelFunc
	now         func() time.Time
}

func (s *Scheduler) Init() error {
	if !s.config.Schedule.Enabled {
		s.logger.Infof(providers.TypeApp, "Scheduler disabled")
		return nil
	}

	interval := s.config.Schedule.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	s.cron = cron.New(
		cron.WithLocation(models.CivilZone),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.Tick(s.now())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Scheduler started. Will send %s reports at %s MSK, checking every %s", s.period, s.trigger.At(), interval)
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Close releases the state codec. The scheduler must be stopped first.
func (s *Scheduler) Close() {
	s.fileManager.Close()
}

// Tick sends the scheduled report when it is due. A failed send leaves the day open for the next tick.
func (s *Scheduler) Tick(now time.Time) bool {
	day, ok := s.trigger.Due(now)
	if !ok {
		return false
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Scheduled time reached. Sending %s reports for %s", s.period, day)

	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()
	err := s.broadcaster.Broadcast(ctx, s.period)

	s.state.LastRunAt = now
	if err != nil {
		s.state.LastError = err.Error()
		s.logger.Errorf(providers.TypeApp, "Failed to send daily reports: %s", err)
		_ = s.persist()
		return false
	}

	s.trigger.MarkSent(day)
	s.state.LastSentDate = day
	s.state.LastError = ""
	s.logger.Infof(providers.TypeApp, "Daily reports sent successfully")
	_ = s.persist()
	return true
}

// RunNow sends the scheduled report immediately without touching the daily trigger.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Manual run of %s reports", s.period)
	return s.broadcaster.Broadcast(ctx, s.period)
}

func (s *Scheduler) LastSentDate() string {
	return s.trigger.LastSentDate()
}

func (s *Scheduler) Restore() error {
	state, err := s.fileManager.LoadFromFile(s.config.Schedule.StatePath)
	if err != nil {
		return err
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	s.state = *state
	s.trigger.MarkSent(state.LastSentDate)
	if state.LastSentDate != "" {
		s.logger.Infof(providers.TypeApp, "Restored scheduler state, last report sent for %s", state.LastSentDate)
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.persist()
}

func (s *Scheduler) persist() error {
	started := time.Now()
	err := s.fileManager.SaveToFile(s.config.Schedule.StatePath, &s.state)
	s.metrics.ObservePersistenceDuration(time.Since(started))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting scheduler state: %s", err)
		return err
	}
	return nil
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	broadcaster interfaces.BroadcasterInterface,
	fileManager *FileManager,
) (*Scheduler, error) {
	trigger, err := NewDailyTrigger(config.Schedule.Time)
	if err != nil {
		return nil, err
	}
	period, err := models.ParsePeriod(config.Schedule.Period)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		broadcaster: broadcaster,
		fileManager: fileManager,
		trigger:     trigger,
		period:      period,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}, nil
}
