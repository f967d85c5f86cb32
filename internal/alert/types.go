package alert

import (
	"time"

	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
)

type RecommendedActionInput struct {
	Action     string
	Priority   model.ActionPriority
	AssignedTo string
}

type CreateInput struct {
	Type               model.AlertType
	Severity           model.Severity
	Title              string
	Message            string
	Area               model.Area
	AffectedResources  model.AffectedResources
	RecommendedActions []RecommendedActionInput
	ExpiresAt          *time.Time
	PredictionID       string
}

// Filter selects alerts by status, severity and area. Empty fields match everything,
// except Status which defaults to active.
type Filter struct {
	Status   model.AlertStatus
	Severity model.Severity
	Area     model.Area
}

type ListInput struct {
	Filter Filter
}

type GetInput struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}

type CompleteActionInput struct {
	ID    string
	Index int
}

type AlertOutput struct {
	Alert model.Alert
}

type GetAlertOutput struct {
	Alerts    []model.Alert
	Paginator paginator.Paginator
}

// Sweep triggers.
const (
	SweepTriggerTicker = "ticker"
	SweepTriggerManual = "manual"
)

type SweepInput struct {
	Trigger   string
	BatchSize int
}

// SweepOutput counts what one sweep did. Shared is set when the caller joined a
// sweep that was already running instead of starting its own.
type SweepOutput struct {
	Scanned int  `json:"scanned"`
	Expired int  `json:"expired"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
	Shared  bool `json:"shared"`
}
