package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubDashboard struct {
	mu      sync.Mutex
	state   domain.DashboardState
	changes []string
}

func (d *stubDashboard) LoadUsers(context.Context) error { return nil }

func (d *stubDashboard) Change(_ context.Context, raw string) error {
	sel, err := domain.ParseSelection(raw)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changes = append(d.changes, raw)
	d.state.Selection = sel
	d.state.Version++
	return nil
}

func (d *stubDashboard) changed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.changes...)
}

func (d *stubDashboard) Snapshot() domain.DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *stubDashboard) Subscribe(func(domain.DashboardState)) func() { return func() {} }

type openCall struct {
	session string
	view    domain.View
}

type stubRegistry struct {
	mu      sync.Mutex
	dash    *stubDashboard
	opens   []openCall
	touches []openCall
}

func (r *stubRegistry) Open(sessionID string, view domain.ViewSpec) (ports.Dashboard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opens = append(r.opens, openCall{sessionID, view.View})
	return r.dash, len(r.opens) == 1
}

func (r *stubRegistry) Get(string, domain.View) (ports.Dashboard, error) {
	return r.dash, nil
}

func (r *stubRegistry) Touch(sessionID string, view domain.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touches = append(r.touches, openCall{sessionID, view})
	return nil
}

func (r *stubRegistry) touched() []openCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]openCall(nil), r.touches...)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustView(t *testing.T, v domain.View) domain.ViewSpec {
	t.Helper()
	spec, err := domain.LookupView(string(v))
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func newContext(method, target, body, sessionID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.Set("session_id", sessionID)
	}
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

func TestState_DefaultView(t *testing.T) {
	reg := &stubRegistry{dash: &stubDashboard{state: domain.DashboardState{
		View:           domain.ViewMeanTimeWeekday,
		Phase:          domain.PhaseEmpty,
		LoadingVisible: true,
		Version:        4,
	}}}
	h := NewDashboardHandler(reg, mustView(t, domain.ViewMeanTimeWeekday))
	c, rec := newContext(http.MethodGet, "/dashboard/state", "", "s1")

	if err := h.State(c); err != nil {
		t.Fatalf("State: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != msgSnapshot || resp.Version != 4 || !resp.Loading.Visible {
		t.Errorf("response = %+v", resp)
	}
	if len(reg.opens) != 1 || reg.opens[0] != (openCall{"s1", domain.ViewMeanTimeWeekday}) {
		t.Errorf("opens = %+v", reg.opens)
	}
}

func TestState_ExplicitView(t *testing.T) {
	reg := &stubRegistry{dash: &stubDashboard{}}
	h := NewDashboardHandler(reg, mustView(t, domain.ViewMeanTimeWeekday))
	c, _ := newContext(http.MethodGet, "/dashboard/state?view=presence_start_end", "", "s1")

	if err := h.State(c); err != nil {
		t.Fatalf("State: %v", err)
	}
	if reg.opens[0].view != domain.ViewPresenceStartEnd {
		t.Errorf("opened view = %q", reg.opens[0].view)
	}
}

func TestState_UnknownView(t *testing.T) {
	h := NewDashboardHandler(&stubRegistry{dash: &stubDashboard{}}, mustView(t, domain.ViewMeanTimeWeekday))
	c, _ := newContext(http.MethodGet, "/dashboard/state?view=weekly", "", "s1")

	if err := h.State(c); !errors.Is(err, domain.ErrUnknownView) {
		t.Fatalf("err = %v, want ErrUnknownView", err)
	}
}

func TestState_MissingSession(t *testing.T) {
	h := NewDashboardHandler(&stubRegistry{dash: &stubDashboard{}}, mustView(t, domain.ViewMeanTimeWeekday))
	c, _ := newContext(http.MethodGet, "/dashboard/state", "", "")

	if code := httpCode(t, h.State(c)); code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", code)
	}
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

func TestSelection_Accepted(t *testing.T) {
	dash := &stubDashboard{}
	h := NewDashboardHandler(&stubRegistry{dash: dash}, mustView(t, domain.ViewMeanTimeWeekday))
	c, rec := newContext(http.MethodPost, "/dashboard/selection", `{"view":"mean_time_weekday","user_id":"7"}`, "s1")

	if err := h.Selection(c); err != nil {
		t.Fatalf("Selection: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(dash.changes) != 1 || dash.changes[0] != "7" {
		t.Errorf("changes = %v", dash.changes)
	}

	var resp snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Selection != "7" {
		t.Errorf("selection = %q", resp.Selection)
	}
}

func TestSelection_EmptyAndZero(t *testing.T) {
	for _, id := range []string{"", "0"} {
		dash := &stubDashboard{}
		h := NewDashboardHandler(&stubRegistry{dash: dash}, mustView(t, domain.ViewMeanTimeWeekday))
		c, _ := newContext(http.MethodPost, "/dashboard/selection", `{"view":"presence_weekday","user_id":"`+id+`"}`, "s1")

		if err := h.Selection(c); err != nil {
			t.Fatalf("Selection(%q): %v", id, err)
		}
		if len(dash.changes) != 1 || dash.changes[0] != id {
			t.Errorf("changes = %v, want [%q]", dash.changes, id)
		}
	}
}

func TestSelection_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"view":`, http.StatusBadRequest},
		{"non numeric id", `{"view":"mean_time_weekday","user_id":"abc"}`, http.StatusUnprocessableEntity},
		{"missing view", `{"user_id":"1"}`, http.StatusUnprocessableEntity},
		{"unknown view", `{"view":"weekly","user_id":"1"}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dash := &stubDashboard{}
			h := NewDashboardHandler(&stubRegistry{dash: dash}, mustView(t, domain.ViewMeanTimeWeekday))
			c, _ := newContext(http.MethodPost, "/dashboard/selection", tc.body, "s1")

			if code := httpCode(t, h.Selection(c)); code != tc.code {
				t.Fatalf("code = %d, want %d", code, tc.code)
			}
			if len(dash.changes) != 0 {
				t.Errorf("rejected request reached the dashboard: %v", dash.changes)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Snapshot projection
// ---------------------------------------------------------------------------

func TestToSnapshotResponse(t *testing.T) {
	chart := &domain.RenderedChart{Container: domain.RegionChart, Type: domain.ChartColumn}
	st := domain.DashboardState{
		View:            domain.ViewMeanTimeWeekday,
		Users:           []domain.User{{UserID: 0, Name: "Zero"}, {UserID: 3, Name: "Three"}},
		SelectorVisible: true,
		Selection:       domain.Select(3),
		Phase:           domain.PhaseFailed,
		Chart:           chart,
		ChartError:      "no data",
		PhotoVisible:    true,
		PhotoContent:    `<img src="/p.png">`,
	}

	resp := toSnapshotResponse(st)

	if resp.Selection != "3" || len(resp.Selector.Options) != 2 {
		t.Fatalf("selector = %+v selection = %q", resp.Selector, resp.Selection)
	}
	if resp.Selector.Options[0].Selected || !resp.Selector.Options[1].Selected {
		t.Errorf("options = %+v", resp.Selector.Options)
	}
	if resp.Selector.Options[0].Value != "0" {
		t.Errorf("zero id value = %q", resp.Selector.Options[0].Value)
	}
	if resp.Chart.Chart != nil {
		t.Error("hidden chart payload exposed")
	}
	if resp.Errors[domain.RegionChart] != "no data" {
		t.Errorf("errors = %v", resp.Errors)
	}
	if resp.Photo.Content != `<img src="/p.png">` || !resp.Photo.Visible {
		t.Errorf("photo = %+v", resp.Photo)
	}

	st.ChartVisible = true
	st.ChartError = ""
	resp = toSnapshotResponse(st)
	if resp.Chart.Chart != chart || resp.Errors != nil {
		t.Errorf("visible chart = %+v errors = %v", resp.Chart, resp.Errors)
	}
}

func TestEncodeSnapshot(t *testing.T) {
	b, err := EncodeSnapshot(domain.DashboardState{View: domain.ViewPresenceWeekday, Phase: domain.PhaseEmpty})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"type":"dashboard.snapshot"`) || !strings.Contains(string(b), `"view":"presence_weekday"`) {
		t.Errorf("encoded = %s", b)
	}
}
