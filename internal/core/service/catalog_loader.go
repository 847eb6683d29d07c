package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

const catalogErrorMessage = "Could not load the user list. Reload the page to try again."

// CatalogLoader fills the user selector from the users listing.
type CatalogLoader struct {
	api   ports.PresenceAPI
	store *Store
	view  domain.ViewSpec
	log   zerolog.Logger
}

// NewCatalogLoader returns a loader writing into store.
func NewCatalogLoader(api ports.PresenceAPI, store *Store, view domain.ViewSpec, log zerolog.Logger) *CatalogLoader {
	return &CatalogLoader{
		api:   api,
		store: store,
		view:  view,
		log:   log.With().Str("component", "catalog_loader").Logger(),
	}
}

// LoadUsers fetches the users listing once and publishes it as selector
// options, in the order the service returned them. On failure the loading
// indicator stays up next to a visible error.
func (l *CatalogLoader) LoadUsers(ctx context.Context) error {
	users, err := l.api.ListUsers(ctx)
	if err != nil {
		l.store.Update(func(st *domain.DashboardState) bool {
			st.CatalogError = catalogErrorMessage
			return true
		})
		l.log.Error().Err(err).Msg("user list could not be loaded")
		return fmt.Errorf("load users: %w", err)
	}

	l.store.Update(func(st *domain.DashboardState) bool {
		st.Users = users
		st.SelectorVisible = true
		st.CatalogError = ""
		// A selection may already be loading; its chart owns the indicator then.
		if st.Phase != domain.PhaseLoading {
			st.LoadingVisible = false
		}
		if st.NavSelected == "" {
			st.NavSelected = l.view.PagePath
		}
		return true
	})

	l.log.Debug().Int("users", len(users)).Msg("user list loaded")
	return nil
}
