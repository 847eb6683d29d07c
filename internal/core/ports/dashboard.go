package ports

import (
	"context"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// Dashboard is one session's controller as seen by the transport layer.
type Dashboard interface {
	// LoadUsers populates the selector from the users listing.
	LoadUsers(ctx context.Context) error
	// Change applies a selector change event carrying the raw selector value.
	Change(ctx context.Context, raw string) error
	// Snapshot returns a copy of the current state.
	Snapshot() domain.DashboardState
	// Subscribe registers fn to receive every later snapshot. The returned
	// func removes the subscription.
	Subscribe(fn func(domain.DashboardState)) (unsubscribe func())
}
