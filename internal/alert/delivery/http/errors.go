package http

import (
	"net/http"

	"alert-srv/internal/alert"
	pkgErrors "alert-srv/pkg/errors"
	"alert-srv/pkg/response"
)

var (
	errUnauthorized = pkgErrors.NewUnauthorizedHTTPError()
	errWrongBody    = pkgErrors.NewHTTPError(140010, "Wrong body", http.StatusBadRequest)
	errWrongQuery   = pkgErrors.NewHTTPError(140011, "Wrong query", http.StatusBadRequest)
	errInvalidIndex = pkgErrors.NewHTTPError(140012, "Action index must be a non-negative integer", http.StatusBadRequest)
)

var errMap = response.ErrorMapping{
	alert.ErrAlertNotFound:     pkgErrors.NewHTTPError(140004, "Alert not found", http.StatusNotFound),
	alert.ErrActionNotFound:    pkgErrors.NewHTTPError(140005, "Recommended action not found", http.StatusNotFound),
	alert.ErrInvalidTransition: pkgErrors.NewHTTPError(140009, "Alert is already resolved or expired", http.StatusConflict),
	alert.ErrForbidden:         pkgErrors.NewForbiddenHTTPError(),
}
