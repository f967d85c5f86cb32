package model

import "time"

type AlertType string

const (
	AlertTypeSurgeWarning         AlertType = "surge_warning"
	AlertTypeSurgeActive          AlertType = "surge_active"
	AlertTypeResourceCritical     AlertType = "resource_critical"
	AlertTypeStaffShortage        AlertType = "staff_shortage"
	AlertTypeAmbulanceUnavailable AlertType = "ambulance_unavailable"
	AlertTypeBedFull              AlertType = "bed_full"
	AlertTypeEmergency            AlertType = "emergency"
	AlertTypeWarning              AlertType = "warning"
	AlertTypeInfo                 AlertType = "info"
	AlertTypeMaintenance          AlertType = "maintenance"
	AlertTypeEmergencyBroadcast   AlertType = "emergency_broadcast"
)

var alertTypes = map[AlertType]bool{
	AlertTypeSurgeWarning: true, AlertTypeSurgeActive: true, AlertTypeResourceCritical: true,
	AlertTypeStaffShortage: true, AlertTypeAmbulanceUnavailable: true, AlertTypeBedFull: true,
	AlertTypeEmergency: true, AlertTypeWarning: true, AlertTypeInfo: true,
	AlertTypeMaintenance: true, AlertTypeEmergencyBroadcast: true,
}

func (t AlertType) IsValid() bool { return alertTypes[t] }

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type Area string

const (
	AreaNorth        Area = "north"
	AreaSouth        Area = "south"
	AreaEast         Area = "east"
	AreaWest         Area = "west"
	AreaCentral      Area = "central"
	AreaSuburban     Area = "suburban"
	AreaHospitalWide Area = "hospital_wide"
)

func (a Area) IsValid() bool {
	switch a {
	case AreaNorth, AreaSouth, AreaEast, AreaWest, AreaCentral, AreaSuburban, AreaHospitalWide:
		return true
	}
	return false
}

type ActionPriority string

const (
	PriorityImmediate ActionPriority = "immediate"
	PriorityHigh      ActionPriority = "high"
	PriorityMedium    ActionPriority = "medium"
	PriorityLow       ActionPriority = "low"
)

func (p ActionPriority) IsValid() bool {
	switch p {
	case PriorityImmediate, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// AlertStatus is the lifecycle state of an alert.
//
//	active ──> resolved
//	   └─────> expired
//
// StatusAcknowledged is reserved: no operation enters it.
type AlertStatus string

const (
	StatusActive       AlertStatus = "active"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
	StatusExpired      AlertStatus = "expired"
)

func (s AlertStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved, StatusExpired:
		return true
	}
	return false
}

func (s AlertStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusExpired
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle graph.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	if s.IsTerminal() {
		return false
	}
	return next == StatusResolved || next == StatusExpired
}

// DefaultAlertTTL is applied when an alert is created without expiresAt.
const DefaultAlertTTL = 24 * time.Hour

type AffectedResources struct {
	Beds        int `json:"beds"`
	ICUBeds     int `json:"icuBeds"`
	Ventilators int `json:"ventilators"`
	Staff       int `json:"staff"`
	Ambulances  int `json:"ambulances"`
}

type RecommendedAction struct {
	Action      string         `json:"action"`
	Priority    ActionPriority `json:"priority"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	Completed   bool           `json:"completed"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

type Acknowledgment struct {
	UserID         string    `json:"userId"`
	AcknowledgedAt time.Time `json:"acknowledgedAt"`
}

type Alert struct {
	ID                 string              `json:"id"`
	Type               AlertType           `json:"type"`
	Severity           Severity            `json:"severity"`
	Title              string              `json:"title"`
	Message            string              `json:"message"`
	Area               Area                `json:"area"`
	AffectedResources  AffectedResources   `json:"affectedResources"`
	RecommendedActions []RecommendedAction `json:"recommendedActions"`
	Status             AlertStatus         `json:"status"`
	ExpiresAt          time.Time           `json:"expiresAt"`
	AcknowledgedBy     []Acknowledgment    `json:"acknowledgedBy"`
	CreatedBy          string              `json:"createdBy,omitempty"`
	PredictionID       string              `json:"predictionId,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func (a Alert) HasAcknowledged(userID string) bool {
	for _, ack := range a.AcknowledgedBy {
		if ack.UserID == userID {
			return true
		}
	}
	return false
}

// IsDue reports whether an active alert has reached its expiry at now.
func (a Alert) IsDue(now time.Time) bool {
	return a.Status == StatusActive && !now.Before(a.ExpiresAt)
}

// Clone returns a copy that shares no slices with a.
func (a Alert) Clone() Alert {
	c := a
	if a.RecommendedActions != nil {
		c.RecommendedActions = make([]RecommendedAction, len(a.RecommendedActions))
		for i, ra := range a.RecommendedActions {
			if ra.CompletedAt != nil {
				t := *ra.CompletedAt
				ra.CompletedAt = &t
			}
			c.RecommendedActions[i] = ra
		}
	}
	if a.AcknowledgedBy != nil {
		c.AcknowledgedBy = append([]Acknowledgment(nil), a.AcknowledgedBy...)
	}
	return c
}
