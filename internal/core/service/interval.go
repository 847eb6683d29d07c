package service

import (
	"time"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// ReferenceMidnight is the instant interval offsets are counted from.
var ReferenceMidnight = time.Date(1901, time.February, 1, 0, 0, 0, 0, time.UTC)

// FormatInterval returns the time of day lying seconds past ReferenceMidnight.
// Fractions below a millisecond are truncated.
func FormatInterval(seconds float64) time.Time {
	return ReferenceMidnight.Add(time.Duration(seconds*1000) * time.Millisecond)
}

// TransformSeries converts the raw seconds of a chart response into
// time-of-day values for view.
func TransformSeries(view domain.View, points []domain.SeriesPoint) domain.ChartSeries {
	series := domain.ChartSeries{
		View:   view,
		Points: make([]domain.ChartPoint, 0, len(points)),
	}
	for _, p := range points {
		cp := domain.ChartPoint{Weekday: p.Weekday, Seconds: p.Value}
		switch view {
		case domain.ViewPresenceStartEnd:
			cp.Start = FormatInterval(p.Start)
			cp.End = FormatInterval(p.End)
		default:
			cp.At = FormatInterval(p.Value)
		}
		series.Points = append(series.Points, cp)
	}
	return series
}
