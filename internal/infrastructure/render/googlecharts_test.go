package render

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

var midnight = time.Date(1901, time.February, 1, 0, 0, 0, 0, time.UTC)

func decodeTable(t *testing.T, raw json.RawMessage) dataTable {
	t.Helper()
	var table dataTable
	if err := json.Unmarshal(raw, &table); err != nil {
		t.Fatalf("decode data table: %v", err)
	}
	return table
}

func TestRender_MeanTime(t *testing.T) {
	series := domain.ChartSeries{
		View:   domain.ViewMeanTimeWeekday,
		Points: []domain.ChartPoint{{Weekday: "Mon", Seconds: 3600, At: midnight.Add(time.Hour)}},
	}

	got, err := NewGoogleCharts().Render(domain.RegionChart, series)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got.Container != domain.RegionChart || got.Type != domain.ChartColumn {
		t.Errorf("container %q type %q", got.Container, got.Type)
	}
	table := decodeTable(t, got.Data)
	if len(table.Cols) != 2 || table.Cols[1].Type != "datetime" {
		t.Errorf("cols = %+v", table.Cols)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %+v", table.Rows)
	}
	if v := table.Rows[0].C[1].V; v != "Date(1901, 1, 1, 1, 0, 0, 0)" {
		t.Errorf("time cell = %v", v)
	}
}

func TestRender_PresenceWeekday(t *testing.T) {
	series := domain.ChartSeries{
		View:   domain.ViewPresenceWeekday,
		Points: []domain.ChartPoint{{Weekday: "Tue", Seconds: 16564}},
	}

	got, err := NewGoogleCharts().Render(domain.RegionChart, series)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got.Type != domain.ChartPie {
		t.Errorf("type = %q", got.Type)
	}
	table := decodeTable(t, got.Data)
	if v, ok := table.Rows[0].C[1].V.(float64); !ok || v != 16564 {
		t.Errorf("value cell = %#v", table.Rows[0].C[1].V)
	}
}

func TestRender_StartEnd(t *testing.T) {
	series := domain.ChartSeries{
		View: domain.ViewPresenceStartEnd,
		Points: []domain.ChartPoint{{
			Weekday: "Wed",
			Start:   midnight.Add(9 * time.Hour),
			End:     midnight.Add(17*time.Hour + 30*time.Minute + 250*time.Millisecond),
		}},
	}

	got, err := NewGoogleCharts().Render(domain.RegionChart, series)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got.Type != domain.ChartTimeline {
		t.Errorf("type = %q", got.Type)
	}
	cells := decodeTable(t, got.Data).Rows[0].C
	if cells[1].V != "Date(1901, 1, 1, 9, 0, 0, 0)" || cells[2].V != "Date(1901, 1, 1, 17, 30, 0, 250)" {
		t.Errorf("cells = %+v", cells)
	}
}

func TestRender_NoPoints(t *testing.T) {
	got, err := NewGoogleCharts().Render(domain.RegionChart, domain.ChartSeries{View: domain.ViewMeanTimeWeekday})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if table := decodeTable(t, got.Data); table.Rows == nil || len(table.Rows) != 0 {
		t.Errorf("rows = %#v, want []", table.Rows)
	}
}

func TestRender_UnknownView(t *testing.T) {
	_, err := NewGoogleCharts().Render(domain.RegionChart, domain.ChartSeries{View: "weekly"})
	if !errors.Is(err, domain.ErrUnknownView) {
		t.Fatalf("err = %v, want ErrUnknownView", err)
	}
}
