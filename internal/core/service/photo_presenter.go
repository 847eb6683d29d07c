package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

// PhotoOutcome is the photo region content produced by one fetch.
// Replaced is false when the service returned no records, in which case the
// region keeps whatever it showed before.
type PhotoOutcome struct {
	Content  string
	Replaced bool
}

// PhotoPresenter fetches a user's photo and builds the region content.
type PhotoPresenter struct {
	api      ports.PresenceAPI
	renderer ports.PhotoRenderer
	log      zerolog.Logger
}

func NewPhotoPresenter(api ports.PresenceAPI, renderer ports.PhotoRenderer, log zerolog.Logger) *PhotoPresenter {
	return &PhotoPresenter{
		api:      api,
		renderer: renderer,
		log:      log.With().Str("component", "photo_presenter").Logger(),
	}
}

// LoadPhoto fetches the photo records of id. Each record replaces the
// previous content, so the last one wins.
func (p *PhotoPresenter) LoadPhoto(ctx context.Context, id domain.UserID) (PhotoOutcome, error) {
	photos, err := p.api.UserPhotos(ctx, id)
	if err != nil {
		return PhotoOutcome{}, fmt.Errorf("load photo for user %d: %w", id, err)
	}

	var out PhotoOutcome
	for _, ph := range photos {
		out.Content = p.renderer.PhotoFragment(ph.URL)
		out.Replaced = true
	}
	if !out.Replaced {
		p.log.Debug().Int("user_id", int(id)).Msg("no photo records")
	}
	return out, nil
}
