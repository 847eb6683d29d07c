package domain

import "encoding/json"

// Phase is the coordinator state for the current selection.
type Phase string

const (
	PhaseEmpty   Phase = "empty"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// DOM regions the dashboard controls.
const (
	RegionSelector = "user_id"
	RegionChart    = "chart_div"
	RegionPhoto    = "user_photo"
	RegionLoading  = "loading"
)

// DashboardState is everything the page shows for one session. It is only
// changed through service.Store; readers get copies.
type DashboardState struct {
	View            View           `json:"view"`
	Users           []User         `json:"users"`
	SelectorVisible bool           `json:"selector_visible"`
	Selection       Selection      `json:"selection"`
	Phase           Phase          `json:"phase"`
	LoadingVisible  bool           `json:"loading_visible"`
	ChartVisible    bool           `json:"chart_visible"`
	PhotoVisible    bool           `json:"photo_visible"`
	PhotoContent    string         `json:"photo_content"`
	Series          *ChartSeries   `json:"-"`
	Chart           *RenderedChart `json:"chart,omitempty"`
	NavSelected     string         `json:"nav_selected,omitempty"`
	CatalogError    string         `json:"catalog_error,omitempty"`
	PhotoError      string         `json:"photo_error,omitempty"`
	ChartError      string         `json:"chart_error,omitempty"`
	Generation      uint64         `json:"generation"`
	Version         uint64         `json:"version"`
}

// NewDashboardState returns the state of a freshly opened page: the initial
// loading indicator is visible and the selector is hidden until users load.
func NewDashboardState(view View) DashboardState {
	return DashboardState{
		View:           view,
		Phase:          PhaseEmpty,
		LoadingVisible: true,
	}
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Selection) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sel, err := ParseSelection(raw)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}
