package interfaces

import "context"

type SchedulerInterface interface {
	Init() error
	Stop()
	Close()
	Restore() error
	Persist() error
	RunNow(ctx context.Context) error
	LastSentDate() string
}
