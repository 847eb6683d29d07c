package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// PageHandler serves the dashboard pages.
type PageHandler struct {
	registry    DashboardRegistry
	defaultView domain.ViewSpec
}

func NewPageHandler(registry DashboardRegistry, defaultView domain.ViewSpec) *PageHandler {
	return &PageHandler{registry: registry, defaultView: defaultView}
}

type pageData struct {
	Title       string
	View        string
	NavSelected string
	Views       []domain.ViewSpec
	Snapshot    snapshotResponse
}

// Index handles GET / by redirecting to the default view.
func (h *PageHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.defaultView.PagePath)
}

// Page returns the handler of view's page. The first visit of a session
// opens its dashboard, which starts loading the user list.
func (h *PageHandler) Page(view domain.ViewSpec) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID, err := ctxSession(c)
		if err != nil {
			return err
		}
		dash, _ := h.registry.Open(sessionID, view)
		snap := toSnapshotResponse(dash.Snapshot())

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, pageData{
			Title:       view.Title,
			View:        string(view.View),
			NavSelected: snap.NavSelected,
			Views:       domain.Views(),
			Snapshot:    snap,
		}); err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
