package handler

import (
	"encoding/json"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// selectionRequest is a selector change event. An empty user_id clears the
// selection.
type selectionRequest struct {
	View   string `json:"view"    validate:"required,oneof=mean_time_weekday presence_weekday presence_start_end"`
	UserID string `json:"user_id" validate:"omitempty,numeric,max=18"`
}

// wsMessage is a message sent by the page over the websocket.
type wsMessage struct {
	Type   string `json:"type"    validate:"required,oneof=selection.change"`
	UserID string `json:"user_id" validate:"omitempty,numeric,max=18"`
}

type optionResponse struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type selectorResponse struct {
	Visible bool             `json:"visible"`
	Options []optionResponse `json:"options"`
}

type regionResponse struct {
	Visible bool   `json:"visible"`
	Content string `json:"content,omitempty"`
}

type chartRegionResponse struct {
	Visible bool                  `json:"visible"`
	Chart   *domain.RenderedChart `json:"chart,omitempty"`
}

// snapshotResponse is the page-facing projection of a DashboardState.
type snapshotResponse struct {
	Type        string              `json:"type"`
	View        string              `json:"view"`
	Version     uint64              `json:"version"`
	Phase       string              `json:"phase"`
	Selection   string              `json:"selection"`
	NavSelected string              `json:"nav_selected,omitempty"`
	Selector    selectorResponse    `json:"selector"`
	Loading     regionResponse      `json:"loading"`
	Photo       regionResponse      `json:"photo"`
	Chart       chartRegionResponse `json:"chart"`
	Errors      map[string]string   `json:"errors,omitempty"`
}

const msgSnapshot = "dashboard.snapshot"

// toSnapshotResponse projects st for the page. It has no side effects.
func toSnapshotResponse(st domain.DashboardState) snapshotResponse {
	selected := st.Selection.String()

	options := make([]optionResponse, 0, len(st.Users))
	for _, u := range st.Users {
		v := u.UserID.String()
		options = append(options, optionResponse{Value: v, Label: u.Name, Selected: v == selected})
	}

	resp := snapshotResponse{
		Type:        msgSnapshot,
		View:        string(st.View),
		Version:     st.Version,
		Phase:       string(st.Phase),
		Selection:   selected,
		NavSelected: st.NavSelected,
		Selector:    selectorResponse{Visible: st.SelectorVisible, Options: options},
		Loading:     regionResponse{Visible: st.LoadingVisible},
		Photo:       regionResponse{Visible: st.PhotoVisible, Content: st.PhotoContent},
		Chart:       chartRegionResponse{Visible: st.ChartVisible},
	}
	if st.ChartVisible {
		resp.Chart.Chart = st.Chart
	}

	errs := map[string]string{}
	if st.CatalogError != "" {
		errs[domain.RegionSelector] = st.CatalogError
	}
	if st.PhotoError != "" {
		errs[domain.RegionPhoto] = st.PhotoError
	}
	if st.ChartError != "" {
		errs[domain.RegionChart] = st.ChartError
	}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp
}

// EncodeSnapshot is the websocket encoding of st.
func EncodeSnapshot(st domain.DashboardState) ([]byte, error) {
	return json.Marshal(toSnapshotResponse(st))
}
