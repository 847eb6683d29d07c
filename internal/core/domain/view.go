package domain

import "fmt"

// View identifies one of the dashboard pages. Each view has its own chart
// endpoint and navigation entry.
type View string

const (
	ViewMeanTimeWeekday  View = "mean_time_weekday"
	ViewPresenceWeekday  View = "presence_weekday"
	ViewPresenceStartEnd View = "presence_start_end"
)

// Chart types understood by the browser charting library.
const (
	ChartColumn   = "ColumnChart"
	ChartPie      = "PieChart"
	ChartTimeline = "Timeline"
)

// ViewSpec describes how a view is served and which data it charts.
type ViewSpec struct {
	View      View
	Title     string
	PagePath  string
	ChartType string
	// chartPath is a format string taking the user id.
	chartPath string
}

// ChartPath returns the presence API path holding the view's data for id.
func (v ViewSpec) ChartPath(id UserID) string {
	return fmt.Sprintf(v.chartPath, int(id))
}

var viewSpecs = []ViewSpec{
	{
		View:      ViewPresenceWeekday,
		Title:     "Presence by weekday",
		PagePath:  "/presence_weekday",
		ChartType: ChartPie,
		chartPath: "/api/v1/presence_weekday/%d",
	},
	{
		View:      ViewMeanTimeWeekday,
		Title:     "Presence mean time by weekday",
		PagePath:  "/mean_time_weekday",
		ChartType: ChartColumn,
		chartPath: "/api/v1/mean_time_weekday/%d",
	},
	{
		View:      ViewPresenceStartEnd,
		Title:     "Presence start - end weekday",
		PagePath:  "/start_end_mean_time_weekday",
		ChartType: ChartTimeline,
		chartPath: "/api/v1/presence_start_end/%d",
	},
}

// Views returns every view in navigation order.
func Views() []ViewSpec {
	out := make([]ViewSpec, len(viewSpecs))
	copy(out, viewSpecs)
	return out
}

// LookupView returns the spec registered for name.
func LookupView(name string) (ViewSpec, error) {
	for _, v := range viewSpecs {
		if string(v.View) == name {
			return v, nil
		}
	}
	return ViewSpec{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
}
