package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

// DashboardDeps carries what a dashboard session needs.
type DashboardDeps struct {
	API          ports.PresenceAPI
	Charts       ports.ChartRenderer
	Photos       ports.PhotoRenderer
	FetchTimeout time.Duration
	Log          zerolog.Logger
}

// Dashboard wires the store, the catalog loader and the selection
// coordinator of one page session.
type Dashboard struct {
	*Store
	view        domain.ViewSpec
	loader      *CatalogLoader
	coordinator *Coordinator
}

var _ ports.Dashboard = (*Dashboard)(nil)

// NewDashboard returns a dashboard for view in its initial state.
func NewDashboard(view domain.ViewSpec, deps DashboardDeps) *Dashboard {
	log := deps.Log.With().Str("view", string(view.View)).Logger()
	store := NewStore(domain.NewDashboardState(view.View))

	return &Dashboard{
		Store:  store,
		view:   view,
		loader: NewCatalogLoader(deps.API, store, view, log),
		coordinator: NewCoordinator(
			store,
			NewPhotoPresenter(deps.API, deps.Photos, log),
			NewChartPresenter(deps.API, deps.Charts, view, log),
			deps.FetchTimeout,
			log,
		),
	}
}

// View returns the view this dashboard charts.
func (d *Dashboard) View() domain.ViewSpec {
	return d.view
}

func (d *Dashboard) LoadUsers(ctx context.Context) error {
	return d.loader.LoadUsers(ctx)
}

func (d *Dashboard) Change(ctx context.Context, raw string) error {
	return d.coordinator.Change(ctx, raw)
}

// Wait blocks until every fetch started so far has finished.
func (d *Dashboard) Wait() {
	d.coordinator.Wait()
}

// Close cancels in-flight fetches.
func (d *Dashboard) Close() {
	d.coordinator.Close()
}
