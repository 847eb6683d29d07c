package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

// ChartOutcome holds a transformed series and its rendered chart.
type ChartOutcome struct {
	Series domain.ChartSeries
	Chart  domain.RenderedChart
}

// ChartPresenter fetches a view's presence data for a user and renders it.
type ChartPresenter struct {
	api      ports.PresenceAPI
	renderer ports.ChartRenderer
	view     domain.ViewSpec
	log      zerolog.Logger
}

func NewChartPresenter(api ports.PresenceAPI, renderer ports.ChartRenderer, view domain.ViewSpec, log zerolog.Logger) *ChartPresenter {
	return &ChartPresenter{
		api:      api,
		renderer: renderer,
		view:     view,
		log:      log.With().Str("component", "chart_presenter").Str("view", string(view.View)).Logger(),
	}
}

// LoadData fetches the chart data of id, formats every offset and renders the
// chart for container. The rendered chart is complete before it is returned,
// so callers can reveal the container in the same step.
func (p *ChartPresenter) LoadData(ctx context.Context, id domain.UserID, container string) (ChartOutcome, error) {
	points, err := p.api.ChartData(ctx, p.view, id)
	if err != nil {
		return ChartOutcome{}, fmt.Errorf("load chart for user %d: %w", id, err)
	}

	series := TransformSeries(p.view.View, points)
	chart, err := p.renderer.Render(container, series)
	if err != nil {
		return ChartOutcome{}, fmt.Errorf("render chart for user %d: %w", id, err)
	}

	p.log.Debug().Int("user_id", int(id)).Int("points", len(series.Points)).Msg("chart rendered")
	return ChartOutcome{Series: series, Chart: chart}, nil
}
