package postgres

import (
	"encoding/json"
	"time"

	"alert-srv/internal/model"
	postgresPkg "alert-srv/pkg/postgre"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
)

const tableAlerts = "alerts"

var alertColumns = []string{
	"id", "type", "severity", "title", "message", "area",
	"affected_resources", "recommended_actions", "status", "expires_at",
	"acknowledged_by", "created_by", "prediction_id", "created_at", "updated_at",
}

type alertRow struct {
	ID                 string      `boil:"id"`
	Type               string      `boil:"type"`
	Severity           string      `boil:"severity"`
	Title              string      `boil:"title"`
	Message            string      `boil:"message"`
	Area               string      `boil:"area"`
	AffectedResources  types.JSON  `boil:"affected_resources"`
	RecommendedActions types.JSON  `boil:"recommended_actions"`
	Status             string      `boil:"status"`
	ExpiresAt          time.Time   `boil:"expires_at"`
	AcknowledgedBy     types.JSON  `boil:"acknowledged_by"`
	CreatedBy          null.String `boil:"created_by"`
	PredictionID       null.String `boil:"prediction_id"`
	CreatedAt          time.Time   `boil:"created_at"`
	UpdatedAt          time.Time   `boil:"updated_at"`
}

func (row alertRow) toModel() (model.Alert, error) {
	a := model.Alert{
		ID:           row.ID,
		Type:         model.AlertType(row.Type),
		Severity:     model.Severity(row.Severity),
		Title:        row.Title,
		Message:      row.Message,
		Area:         model.Area(row.Area),
		Status:       model.AlertStatus(row.Status),
		ExpiresAt:    row.ExpiresAt,
		CreatedBy:    row.CreatedBy.String,
		PredictionID: row.PredictionID.String,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.AffectedResources) > 0 {
		if err := row.AffectedResources.Unmarshal(&a.AffectedResources); err != nil {
			return model.Alert{}, err
		}
	}
	a.RecommendedActions = []model.RecommendedAction{}
	if len(row.RecommendedActions) > 0 {
		if err := row.RecommendedActions.Unmarshal(&a.RecommendedActions); err != nil {
			return model.Alert{}, err
		}
	}
	a.AcknowledgedBy = []model.Acknowledgment{}
	if len(row.AcknowledgedBy) > 0 {
		if err := row.AcknowledgedBy.Unmarshal(&a.AcknowledgedBy); err != nil {
			return model.Alert{}, err
		}
	}
	return a, nil
}

func toModels(rows []*alertRow) ([]model.Alert, error) {
	res := make([]model.Alert, 0, len(rows))
	for _, row := range rows {
		a, err := row.toModel()
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}

// jsonArg encodes v for a ::jsonb placeholder. nil slices become [].
func jsonArg(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func insertArgs(a model.Alert) ([]any, error) {
	resources, err := jsonArg(a.AffectedResources)
	if err != nil {
		return nil, err
	}
	actions, err := jsonArg(a.RecommendedActions)
	if err != nil {
		return nil, err
	}
	acks, err := jsonArg(a.AcknowledgedBy)
	if err != nil {
		return nil, err
	}
	return []any{
		a.ID, string(a.Type), string(a.Severity), a.Title, a.Message, string(a.Area),
		resources, actions, string(a.Status), a.ExpiresAt,
		acks, postgresPkg.NullString(a.CreatedBy), postgresPkg.NullString(a.PredictionID), a.CreatedAt, a.UpdatedAt,
	}, nil
}
