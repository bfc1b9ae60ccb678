// Package models defines the core domain models for the automation engine.
package models

import "time"

// TriggerType represents the CRM event category that can start an automation.
type TriggerType string

const (
	TriggerFormSubmitted TriggerType = "form_submitted"
	TriggerTagApplied    TriggerType = "tag_applied"
	TriggerStatusChanged TriggerType = "status_changed"
)

// Automation is a tenant-owned workflow definition: a graph of nodes and
// edges plus the trigger rule that starts it. The engine treats automations
// as read-only; authoring happens through the management surface.
type Automation struct {
	ID            string            `json:"id"`
	TenantID      string            `json:"tenant_id"      validate:"required"`
	Name          string            `json:"name"           validate:"required,min=3"`
	TriggerType   TriggerType       `json:"trigger_type"   validate:"required"`
	TriggerConfig map[string]any    `json:"trigger_config"`
	Active        bool              `json:"active"`
	Nodes         []*AutomationNode `json:"nodes"`
	Edges         []*AutomationEdge `json:"edges"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
