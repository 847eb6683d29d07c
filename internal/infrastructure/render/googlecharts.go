// Package render adapts dashboard data to what the browser draws: Google
// Charts DataTable payloads and sanitized HTML fragments.
package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

type column struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type cell struct {
	V any `json:"v"`
}

type row struct {
	C []cell `json:"c"`
}

type dataTable struct {
	Cols []column `json:"cols"`
	Rows []row    `json:"rows"`
}

// GoogleCharts renders chart series as Google Charts DataTable literals.
type GoogleCharts struct{}

func NewGoogleCharts() *GoogleCharts {
	return &GoogleCharts{}
}

// Render builds the DataTable and chart options for series.
func (GoogleCharts) Render(container string, series domain.ChartSeries) (domain.RenderedChart, error) {
	spec, err := domain.LookupView(string(series.View))
	if err != nil {
		return domain.RenderedChart{}, fmt.Errorf("render chart: %w", err)
	}

	var (
		table   dataTable
		options map[string]any
	)
	switch series.View {
	case domain.ViewPresenceWeekday:
		table.Cols = []column{{"Weekday", "string"}, {"Presence (s)", "number"}}
		for _, p := range series.Points {
			table.Rows = append(table.Rows, row{C: []cell{{p.Weekday}, {p.Seconds}}})
		}
		options = map[string]any{}
	case domain.ViewPresenceStartEnd:
		table.Cols = []column{{"Weekday", "string"}, {"Start", "datetime"}, {"End", "datetime"}}
		for _, p := range series.Points {
			table.Rows = append(table.Rows, row{C: []cell{{p.Weekday}, {dateLiteral(p.Start)}, {dateLiteral(p.End)}}})
		}
		options = map[string]any{"hAxis": map[string]any{"format": "HH:mm"}}
	default:
		table.Cols = []column{{"Weekday", "string"}, {"Mean time (h:m:s)", "datetime"}}
		for _, p := range series.Points {
			table.Rows = append(table.Rows, row{C: []cell{{p.Weekday}, {dateLiteral(p.At)}}})
		}
		options = map[string]any{"hAxis": map[string]any{"title": "Weekday"}}
	}
	if table.Rows == nil {
		table.Rows = []row{}
	}

	data, err := json.Marshal(table)
	if err != nil {
		return domain.RenderedChart{}, fmt.Errorf("render chart: %w", err)
	}
	opts, err := json.Marshal(options)
	if err != nil {
		return domain.RenderedChart{}, fmt.Errorf("render chart options: %w", err)
	}

	return domain.RenderedChart{
		Container: container,
		Type:      spec.ChartType,
		Data:      data,
		Options:   opts,
	}, nil
}

// dateLiteral formats t the way the DataTable JSON format spells dates.
// Months are zero-based.
func dateLiteral(t time.Time) string {
	return fmt.Sprintf("Date(%d, %d, %d, %d, %d, %d, %d)",
		t.Year(), int(t.Month())-1, t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}
