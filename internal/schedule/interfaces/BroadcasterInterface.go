package interfaces

import (
	"auroscope/internal/models"
	"context"
)

// BroadcasterInterface delivers one report for period to every subscribed chat.
type BroadcasterInterface interface {
	Broadcast(ctx context.Context, period models.Period) error
}
