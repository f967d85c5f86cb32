package http

import (
	"net/http"

	ws "alert-srv/internal/websocket"
	pkgErrors "alert-srv/pkg/errors"
	"alert-srv/pkg/response"
)

var errMap = response.ErrorMapping{
	ws.ErrMissingToken: pkgErrors.NewHTTPError(http.StatusUnauthorized, "Missing authentication token", http.StatusUnauthorized),
	ws.ErrInvalidToken: pkgErrors.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token", http.StatusUnauthorized),
}
