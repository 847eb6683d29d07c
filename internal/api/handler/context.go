package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSession extracts the dashboard session id injected by the Session
// middleware. Its absence means the route was mounted without it.
func ctxSession(c echo.Context) (string, error) {
	id, _ := c.Get("session_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing dashboard session")
	}
	return id, nil
}
