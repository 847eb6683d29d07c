package ports

import "github.com/presence-analyzer/dashboard/internal/core/domain"

// ChartRenderer turns a transformed series into the payload the browser
// charting library draws into container.
type ChartRenderer interface {
	Render(container string, series domain.ChartSeries) (domain.RenderedChart, error)
}

// PhotoRenderer builds the photo region content for a photo URL.
type PhotoRenderer interface {
	PhotoFragment(url string) string
}
