package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/pkg/metrics"
)

const (
	photoErrorMessage = "Photo unavailable."
	chartErrorMessage = "Could not load presence data for this user."
)

// Coordinator reacts to selector changes. It decides what to fetch, owns the
// visibility of the loading indicator and content regions, and drops results
// that arrive for a selection the user already left.
//
// Every change bumps the state generation. Fetch tasks remember the
// generation they were issued under and only apply when it is still current.
type Coordinator struct {
	store   *Store
	photos  *PhotoPresenter
	charts  *ChartPresenter
	timeout time.Duration
	log     zerolog.Logger

	base context.Context
	stop context.CancelFunc

	mu     sync.Mutex
	cancel context.CancelFunc // tasks of the current generation
	tasks  sync.WaitGroup
}

// NewCoordinator returns a coordinator driving store. A zero timeout leaves
// fetches unbounded.
func NewCoordinator(store *Store, photos *PhotoPresenter, charts *ChartPresenter, timeout time.Duration, log zerolog.Logger) *Coordinator {
	base, stop := context.WithCancel(context.Background())
	return &Coordinator{
		store:   store,
		photos:  photos,
		charts:  charts,
		timeout: timeout,
		log:     log.With().Str("component", "coordinator").Logger(),
		base:    base,
		stop:    stop,
	}
}

// Change applies a selector change event. An empty value hides both content
// regions without fetching. A user id shows the loading indicator, hides the
// chart and starts the photo and chart fetches side by side; Change returns
// without waiting for them.
func (c *Coordinator) Change(ctx context.Context, raw string) error {
	sel, err := domain.ParseSelection(raw)
	if err != nil {
		metrics.SelectionChangesTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("change selection %q: %w", raw, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.base.Err() != nil {
		return fmt.Errorf("change selection: %w", c.base.Err())
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	id, ok := sel.UserID()
	if !ok {
		metrics.SelectionChangesTotal.WithLabelValues("empty").Inc()
		c.store.Update(func(st *domain.DashboardState) bool {
			st.Generation++
			st.Selection = sel
			st.ChartVisible = false
			st.PhotoVisible = false
			st.ChartError = ""
			st.PhotoError = ""
			// The superseded chart fetch will never hide the indicator itself.
			if st.Phase == domain.PhaseLoading {
				st.LoadingVisible = false
			}
			st.Phase = domain.PhaseEmpty
			return true
		})
		c.log.Debug().Msg("selection cleared")
		return nil
	}

	metrics.SelectionChangesTotal.WithLabelValues("user").Inc()
	next, _ := c.store.Update(func(st *domain.DashboardState) bool {
		st.Generation++
		st.Selection = sel
		st.LoadingVisible = true
		st.ChartVisible = false
		st.ChartError = ""
		st.PhotoError = ""
		st.Phase = domain.PhaseLoading
		return true
	})
	gen := next.Generation

	taskCtx, cancel := c.taskContext(ctx)
	c.cancel = cancel

	c.log.Debug().Int("user_id", int(id)).Uint64("generation", gen).Msg("selection changed")

	c.tasks.Add(2)
	go c.runPhoto(taskCtx, gen, id)
	go c.runChart(taskCtx, gen, id)
	return nil
}

// Wait blocks until every fetch started so far has finished.
func (c *Coordinator) Wait() {
	c.tasks.Wait()
}

// Close cancels in-flight fetches and waits for them to return. Later
// changes are rejected.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.stop()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.tasks.Wait()
}

// taskContext detaches fetches from the request that triggered them while
// keeping its values, so they outlive the change event but not the session.
func (c *Coordinator) taskContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	ctx, cancelBase := context.WithCancel(ctx)
	stopOnClose := context.AfterFunc(c.base, cancelBase)

	if c.timeout <= 0 {
		return ctx, func() {
			stopOnClose()
			cancelBase()
		}
	}
	ctx, cancelTimeout := context.WithTimeout(ctx, c.timeout)
	return ctx, func() {
		cancelTimeout()
		stopOnClose()
		cancelBase()
	}
}

func (c *Coordinator) runPhoto(ctx context.Context, gen uint64, id domain.UserID) {
	defer c.tasks.Done()

	out, err := c.photos.LoadPhoto(ctx, id)

	stale := false
	c.store.Update(func(st *domain.DashboardState) bool {
		if st.Generation != gen {
			stale = true
			return false
		}
		if err != nil {
			st.PhotoError = photoErrorMessage
			return true
		}
		if !out.Replaced {
			return false
		}
		st.PhotoContent = out.Content
		st.PhotoVisible = true
		return true
	})

	switch {
	case stale:
		metrics.StaleResultsTotal.WithLabelValues("photo").Inc()
		c.log.Debug().Int("user_id", int(id)).Uint64("generation", gen).Msg("stale photo discarded")
	case err != nil:
		c.log.Warn().Err(err).Int("user_id", int(id)).Msg("photo fetch failed")
	}
}

func (c *Coordinator) runChart(ctx context.Context, gen uint64, id domain.UserID) {
	defer c.tasks.Done()

	out, err := c.charts.LoadData(ctx, id, domain.RegionChart)

	stale := false
	c.store.Update(func(st *domain.DashboardState) bool {
		if st.Generation != gen {
			stale = true
			return false
		}
		st.LoadingVisible = false
		if err != nil {
			st.ChartVisible = false
			st.ChartError = chartErrorMessage
			st.Phase = domain.PhaseFailed
			return true
		}
		st.Series = &out.Series
		st.Chart = &out.Chart
		st.ChartVisible = true
		st.Phase = domain.PhaseLoaded
		return true
	})

	switch {
	case stale:
		metrics.StaleResultsTotal.WithLabelValues("chart").Inc()
		c.log.Debug().Int("user_id", int(id)).Uint64("generation", gen).Msg("stale chart discarded")
	case errors.Is(err, domain.ErrUserNotFound):
		c.log.Info().Int("user_id", int(id)).Msg("no presence data for user")
	case err != nil:
		c.log.Error().Err(err).Int("user_id", int(id)).Msg("chart fetch failed")
	}
}
