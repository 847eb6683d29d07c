package ports

import (
	"context"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// PresenceAPI is the remote service the dashboard reads from.
type PresenceAPI interface {
	// ListUsers returns the users in the order the service lists them.
	ListUsers(ctx context.Context) ([]domain.User, error)
	// UserPhotos returns zero or more photo records for id.
	UserPhotos(ctx context.Context, id domain.UserID) ([]domain.Photo, error)
	// ChartData returns the per-weekday series backing view for id.
	ChartData(ctx context.Context, view domain.ViewSpec, id domain.UserID) ([]domain.SeriesPoint, error)
}
