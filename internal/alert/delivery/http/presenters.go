package http

import (
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
)

type recommendedActionReq struct {
	Action     string `json:"action"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo"`
}

type createReq struct {
	Type               string                  `json:"type"`
	Severity           string                  `json:"severity"`
	Title              string                  `json:"title"`
	Message            string                  `json:"message"`
	Area               string                  `json:"area"`
	AffectedResources  model.AffectedResources `json:"affectedResources"`
	RecommendedActions []recommendedActionReq  `json:"recommendedActions"`
	ExpiresAt          *time.Time              `json:"expiresAt"`
	PredictionID       string                  `json:"predictionId"`
}

func (r createReq) toInput() alert.CreateInput {
	actions := make([]alert.RecommendedActionInput, len(r.RecommendedActions))
	for i, ra := range r.RecommendedActions {
		actions[i] = alert.RecommendedActionInput{
			Action:     ra.Action,
			Priority:   model.ActionPriority(ra.Priority),
			AssignedTo: ra.AssignedTo,
		}
	}
	return alert.CreateInput{
		Type:               model.AlertType(r.Type),
		Severity:           model.Severity(r.Severity),
		Title:              r.Title,
		Message:            r.Message,
		Area:               model.Area(r.Area),
		AffectedResources:  r.AffectedResources,
		RecommendedActions: actions,
		ExpiresAt:          r.ExpiresAt,
		PredictionID:       r.PredictionID,
	}
}

type listReq struct {
	Status   string `form:"status"`
	Severity string `form:"severity"`
	Area     string `form:"area"`
	Page     int    `form:"page"`
	Limit    int64  `form:"limit"`
}

func (r listReq) toInput() alert.GetInput {
	pq := paginator.PaginateQuery{Page: r.Page, Limit: r.Limit}
	pq.Adjust()
	return alert.GetInput{
		Filter: alert.Filter{
			Status:   model.AlertStatus(r.Status),
			Severity: model.Severity(r.Severity),
			Area:     model.Area(r.Area),
		},
		PaginateQuery: pq,
	}
}

type alertResp struct {
	ID                 string                    `json:"id"`
	Type               model.AlertType           `json:"type"`
	Severity           model.Severity            `json:"severity"`
	Title              string                    `json:"title"`
	Message            string                    `json:"message"`
	Area               model.Area                `json:"area"`
	AffectedResources  model.AffectedResources   `json:"affectedResources"`
	RecommendedActions []model.RecommendedAction `json:"recommendedActions"`
	Status             model.AlertStatus         `json:"status"`
	ExpiresAt          time.Time                 `json:"expiresAt"`
	AcknowledgedBy     []model.Acknowledgment    `json:"acknowledgedBy"`
	CreatedBy          string                    `json:"createdBy,omitempty"`
	PredictionID       string                    `json:"predictionId,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

func (h *Handler) newAlertResp(a model.Alert) alertResp {
	actions := a.RecommendedActions
	if actions == nil {
		actions = []model.RecommendedAction{}
	}
	acks := a.AcknowledgedBy
	if acks == nil {
		acks = []model.Acknowledgment{}
	}
	return alertResp{
		ID:                 a.ID,
		Type:               a.Type,
		Severity:           a.Severity,
		Title:              a.Title,
		Message:            a.Message,
		Area:               a.Area,
		AffectedResources:  a.AffectedResources,
		RecommendedActions: actions,
		Status:             a.Status,
		ExpiresAt:          a.ExpiresAt,
		AcknowledgedBy:     acks,
		CreatedBy:          a.CreatedBy,
		PredictionID:       a.PredictionID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type listResp struct {
	Alerts    []alertResp                 `json:"alerts"`
	Paginator paginator.PaginatorResponse `json:"paginator"`
}

func (h *Handler) newListResp(o alert.GetAlertOutput) listResp {
	alerts := make([]alertResp, len(o.Alerts))
	for i, a := range o.Alerts {
		alerts[i] = h.newAlertResp(a)
	}
	return listResp{
		Alerts:    alerts,
		Paginator: o.Paginator.ToResponse(),
	}
}
