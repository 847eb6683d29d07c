package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/core/ports"
)

// DashboardRegistry resolves the dashboard of a session and view.
type DashboardRegistry interface {
	Open(sessionID string, view domain.ViewSpec) (ports.Dashboard, bool)
	Get(sessionID string, view domain.View) (ports.Dashboard, error)
	Touch(sessionID string, view domain.View) error
}

// DashboardHandler serves dashboard state and accepts selector changes.
type DashboardHandler struct {
	registry    DashboardRegistry
	defaultView domain.ViewSpec
}

func NewDashboardHandler(registry DashboardRegistry, defaultView domain.ViewSpec) *DashboardHandler {
	return &DashboardHandler{registry: registry, defaultView: defaultView}
}

// State handles GET /dashboard/state and returns the session's current snapshot.
//
// @Summary      Current dashboard state
// @Tags         dashboard
// @Produce      json
// @Param        view  query     string  false  "Dashboard view"  Enums(mean_time_weekday, presence_weekday, presence_start_end)
// @Success      200   {object}  snapshotResponse
// @Failure      404   {object}  errorResponse
// @Router       /dashboard/state [get]
func (h *DashboardHandler) State(c echo.Context) error {
	dash, err := h.resolve(c, c.QueryParam("view"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(dash.Snapshot()))
}

// Selection handles POST /dashboard/selection. It applies a selector change
// and returns 202 with the state right after the transition. Fetches it
// started finish in the background.
//
// @Summary      Change the selected user
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        body  body      selectionRequest  true  "Selector change"
// @Success      202   {object}  snapshotResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/selection [post]
func (h *DashboardHandler) Selection(c echo.Context) error {
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	dash, err := h.resolve(c, req.View)
	if err != nil {
		return err
	}
	if err := dash.Change(c.Request().Context(), req.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, toSnapshotResponse(dash.Snapshot()))
}

// resolve opens the session's dashboard for view, falling back to the
// default view when view is empty.
func (h *DashboardHandler) resolve(c echo.Context, view string) (ports.Dashboard, error) {
	sessionID, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	spec := h.defaultView
	if view != "" {
		if spec, err = domain.LookupView(view); err != nil {
			return nil, err
		}
	}
	dash, _ := h.registry.Open(sessionID, spec)
	return dash, nil
}
