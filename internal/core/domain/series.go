package domain

import (
	"encoding/json"
	"time"
)

// SeriesPoint is one weekday entry of a chart data response. Aggregate
// views (mean or total presence) fill Value; the start-end view fills
// Start and End. All values are seconds, offsets are since midnight.
type SeriesPoint struct {
	Weekday string
	Value   float64
	Start   float64
	End     float64
}

// ChartPoint is a SeriesPoint with its offsets converted to time-of-day values.
type ChartPoint struct {
	Weekday string
	Seconds float64
	At      time.Time
	Start   time.Time
	End     time.Time
}

// ChartSeries is the transformed data of one chart render.
type ChartSeries struct {
	View   View
	Points []ChartPoint
}

// RenderedChart is what the charting library adapter produced for a container.
type RenderedChart struct {
	Container string          `json:"container"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Options   json.RawMessage `json:"options,omitempty"`
}
