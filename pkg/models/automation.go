package models

import "time"

// AutomationStatus represents the lifecycle state of a persisted automation.
type AutomationStatus string

const (
	AutomationStatusActive   AutomationStatus = "active"
	AutomationStatusInactive AutomationStatus = "inactive"
)

// Automation is the backend's persisted workflow resource. Edges are not
// part of the persisted shape; the backend stores nodes only.
type Automation struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"           validate:"required,min=3"`
	Description    string           `json:"description"`
	Status         AutomationStatus `json:"status"`
	OrganizationID string           `json:"organizationId"`
	CreatedBy      string           `json:"createdBy"`
	Nodes          []Node           `json:"nodes"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// IsActive reports whether the automation is currently active.
func (a *Automation) IsActive() bool {
	return a.Status == AutomationStatusActive
}

// ToggledStatus returns the opposite of the automation's current status.
func (a *Automation) ToggledStatus() AutomationStatus {
	if a.IsActive() {
		return AutomationStatusInactive
	}

	return AutomationStatusActive
}
