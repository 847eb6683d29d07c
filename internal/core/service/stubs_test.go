package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubAPI is an in-memory presence API. A gate registered for a user makes
// the matching fetch block until the gate is closed; with honourCtx it also
// returns early when the fetch context ends.
type stubAPI struct {
	mu sync.Mutex

	users    []domain.User
	usersErr error

	photos   map[domain.UserID][]domain.Photo
	photoErr error
	series   map[domain.UserID][]domain.SeriesPoint
	chartErr error

	photoGates map[domain.UserID]chan struct{}
	chartGates map[domain.UserID]chan struct{}
	honourCtx  bool

	listCalls  int
	photoCalls []domain.UserID
	chartCalls []domain.UserID
	chartCtxs  []context.Context
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		photos:     make(map[domain.UserID][]domain.Photo),
		series:     make(map[domain.UserID][]domain.SeriesPoint),
		photoGates: make(map[domain.UserID]chan struct{}),
		chartGates: make(map[domain.UserID]chan struct{}),
		honourCtx:  true,
	}
}

func (s *stubAPI) ListUsers(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return s.users, s.usersErr
}

func (s *stubAPI) UserPhotos(ctx context.Context, id domain.UserID) ([]domain.Photo, error) {
	s.mu.Lock()
	s.photoCalls = append(s.photoCalls, id)
	gate := s.photoGates[id]
	s.mu.Unlock()

	if err := s.wait(ctx, gate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.photoErr != nil {
		return nil, s.photoErr
	}
	return s.photos[id], nil
}

func (s *stubAPI) ChartData(ctx context.Context, _ domain.ViewSpec, id domain.UserID) ([]domain.SeriesPoint, error) {
	s.mu.Lock()
	s.chartCalls = append(s.chartCalls, id)
	s.chartCtxs = append(s.chartCtxs, ctx)
	gate := s.chartGates[id]
	s.mu.Unlock()

	if err := s.wait(ctx, gate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chartErr != nil {
		return nil, s.chartErr
	}
	return s.series[id], nil
}

func (s *stubAPI) wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	if !s.honourCtx {
		<-gate
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubAPI) gateChart(id domain.UserID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.chartGates[id] = ch
	return ch
}

func (s *stubAPI) gatePhoto(id domain.UserID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.photoGates[id] = ch
	return ch
}

func (s *stubAPI) calls() (photos, charts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.photoCalls), len(s.chartCalls)
}

type stubChartRenderer struct {
	err error
}

func (r stubChartRenderer) Render(container string, series domain.ChartSeries) (domain.RenderedChart, error) {
	if r.err != nil {
		return domain.RenderedChart{}, r.err
	}
	return domain.RenderedChart{Container: container, Type: "stub"}, nil
}

type stubPhotoRenderer struct{}

func (stubPhotoRenderer) PhotoFragment(url string) string {
	return `<img src="` + url + `">`
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

func meanView(t *testing.T) domain.ViewSpec {
	t.Helper()
	v, err := domain.LookupView(string(domain.ViewMeanTimeWeekday))
	if err != nil {
		t.Fatalf("lookup view: %v", err)
	}
	return v
}

func newTestDashboard(t *testing.T, api *stubAPI, timeout time.Duration) *Dashboard {
	t.Helper()
	d := NewDashboard(meanView(t), DashboardDeps{
		API:          api,
		Charts:       stubChartRenderer{},
		Photos:       stubPhotoRenderer{},
		FetchTimeout: timeout,
		Log:          zerolog.Nop(),
	})
	t.Cleanup(d.Close)
	return d
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
