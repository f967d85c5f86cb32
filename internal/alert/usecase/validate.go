package usecase

import (
	"fmt"
	"strings"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/model"
	pkgErrors "alert-srv/pkg/errors"
)

const defaultTTL = model.DefaultAlertTTL

func required(field string) *pkgErrors.ValidationError {
	return pkgErrors.NewValidationError(alert.CodeFieldRequired, field, "is required")
}

func invalid(field string, msg string) *pkgErrors.ValidationError {
	return pkgErrors.NewValidationError(alert.CodeInvalidValue, field, msg)
}

// validateCreateInput checks every field and reports all failures at once.
func validateCreateInput(ip alert.CreateInput, now time.Time) error {
	errs := pkgErrors.NewValidationErrorCollector()

	switch {
	case ip.Type == "":
		errs.Add(required("type"))
	case !ip.Type.IsValid():
		errs.Add(invalid("type", "unknown alert type "+string(ip.Type)))
	}

	switch {
	case ip.Severity == "":
		errs.Add(required("severity"))
	case !ip.Severity.IsValid():
		errs.Add(invalid("severity", "unknown severity "+string(ip.Severity)))
	}

	if strings.TrimSpace(ip.Title) == "" {
		errs.Add(required("title"))
	}
	if strings.TrimSpace(ip.Message) == "" {
		errs.Add(required("message"))
	}
	if ip.Area != "" && !ip.Area.IsValid() {
		errs.Add(invalid("area", "unknown area "+string(ip.Area)))
	}

	res := ip.AffectedResources
	for _, c := range []struct {
		field string
		n     int
	}{
		{"affectedResources.beds", res.Beds},
		{"affectedResources.icuBeds", res.ICUBeds},
		{"affectedResources.ventilators", res.Ventilators},
		{"affectedResources.staff", res.Staff},
		{"affectedResources.ambulances", res.Ambulances},
	} {
		if c.n < 0 {
			errs.Add(invalid(c.field, "must be >= 0"))
		}
	}

	for i, ra := range ip.RecommendedActions {
		if strings.TrimSpace(ra.Action) == "" {
			errs.Add(required(actionField(i, "action")))
		}
		if ra.Priority != "" && !ra.Priority.IsValid() {
			errs.Add(invalid(actionField(i, "priority"), "unknown priority "+string(ra.Priority)))
		}
	}

	if ip.ExpiresAt != nil && ip.ExpiresAt.Before(now) {
		errs.Add(invalid("expiresAt", "must not be before creation time"))
	}

	if errs.HasError() {
		return errs
	}
	return nil
}

func actionField(i int, name string) string {
	return fmt.Sprintf("recommendedActions[%d].%s", i, name)
}
