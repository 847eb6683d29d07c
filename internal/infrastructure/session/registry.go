// Package session keeps the dashboards of open browser pages in memory.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
	"github.com/presence-analyzer/dashboard/internal/core/service"
	"github.com/presence-analyzer/dashboard/internal/pkg/metrics"
)

const defaultIdleTTL = 30 * time.Minute

// Publisher forwards state snapshots to whoever watches a topic.
type Publisher interface {
	Publish(topic string, st domain.DashboardState) bool
}

// Watchers reports how many pages are connected to a topic.
type Watchers interface {
	Clients(topic string) int
}

type key struct {
	session string
	view    domain.View
}

// Topic names the notification stream of one session's view.
func Topic(sessionID string, view domain.View) string {
	return sessionID + ":" + string(view)
}

type entry struct {
	dash        *service.Dashboard
	unsubscribe func()
	lastSeen    time.Time
}

// Registry holds one dashboard per session and view. Opening a dashboard for
// the first time is the page-ready event: it starts the users listing.
type Registry struct {
	deps      service.DashboardDeps
	publisher Publisher
	watchers  Watchers
	idleTTL   time.Duration
	now       func() time.Time
	log       zerolog.Logger

	base context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	entries map[key]*entry
	loads   sync.WaitGroup
}

// NewRegistry returns an empty registry. publisher and watchers may be nil.
// Dashboards with a connected page are never considered idle.
func NewRegistry(deps service.DashboardDeps, publisher Publisher, watchers Watchers, idleTTL time.Duration, log zerolog.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	base, stop := context.WithCancel(context.Background())
	return &Registry{
		deps:      deps,
		publisher: publisher,
		watchers:  watchers,
		idleTTL:   idleTTL,
		now:       time.Now,
		log:       log.With().Str("component", "session_registry").Logger(),
		base:      base,
		stop:      stop,
		entries:   make(map[key]*entry),
	}
}

// Open returns the dashboard of sessionID for view, creating it when needed.
// created reports whether this call made it.
func (r *Registry) Open(sessionID string, view domain.ViewSpec) (dash ports.Dashboard, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{session: sessionID, view: view.View}
	if e, ok := r.entries[k]; ok {
		e.lastSeen = r.now()
		return e.dash, false
	}

	d := service.NewDashboard(view, r.deps)
	e := &entry{dash: d, lastSeen: r.now(), unsubscribe: func() {}}
	if r.publisher != nil {
		topic := Topic(sessionID, view.View)
		e.unsubscribe = d.Subscribe(func(st domain.DashboardState) {
			r.publisher.Publish(topic, st)
		})
	}
	r.entries[k] = e
	metrics.ActiveSessions.Inc()

	r.loads.Add(1)
	go func() {
		defer r.loads.Done()
		// errors are logged and surfaced in the dashboard state
		_ = d.LoadUsers(r.base)
	}()

	r.log.Debug().Str("session_id", sessionID).Str("view", string(view.View)).Msg("dashboard opened")
	return d, true
}

// Get returns an existing dashboard.
func (r *Registry) Get(sessionID string, view domain.View) (ports.Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key{session: sessionID, view: view}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, view)
	}
	e.lastSeen = r.now()
	return e.dash, nil
}

// Touch marks the dashboard of sessionID for view as in use.
func (r *Registry) Touch(sessionID string, view domain.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key{session: sessionID, view: view}]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, view)
	}
	e.lastSeen = r.now()
	return nil
}

// Len returns the number of open dashboards.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes dashboards idle for longer than the idle TTL and returns how
// many it closed. A dashboard with a connected page is refreshed instead.
func (r *Registry) Sweep() int {
	now := r.now()
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*entry
	for k, e := range r.entries {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		if r.watchers != nil && r.watchers.Clients(Topic(k.session, k.view)) > 0 {
			e.lastSeen = now
			continue
		}
		idle = append(idle, e)
		delete(r.entries, k)
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.unsubscribe()
		e.dash.Close()
		metrics.ActiveSessions.Dec()
	}
	if len(idle) > 0 {
		r.log.Info().Int("closed", len(idle)).Msg("idle dashboards closed")
	}
	return len(idle)
}

// Run sweeps idle dashboards every interval until ctx is done, then closes
// every dashboard.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close cancels pending user listings and closes every dashboard.
func (r *Registry) Close() {
	r.stop()
	r.loads.Wait()

	r.mu.Lock()
	all := r.entries
	r.entries = make(map[key]*entry)
	r.mu.Unlock()

	for _, e := range all {
		e.unsubscribe()
		e.dash.Close()
		metrics.ActiveSessions.Dec()
	}
}

// WaitLoaded blocks until every users listing started so far has returned.
func (r *Registry) WaitLoaded() {
	r.loads.Wait()
}
