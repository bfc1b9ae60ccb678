// Package web provides the engine's own HTTP surface: trigger dispatch and
// run inspection.
package web

import "github.com/joelmartins/onsell-engine/pkg/models"

// ContactPayload carries the contact fields the engine snapshots into run
// context. The full contact record stays on the CRM side.
type ContactPayload struct {
	ID       string `json:"id"        validate:"required"`
	TenantID string `json:"tenant_id" validate:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// OpportunityPayload carries the opportunity fields the engine snapshots.
type OpportunityPayload struct {
	ID      string  `json:"id" validate:"required"`
	Title   string  `json:"title"`
	Value   float64 `json:"value"`
	StageID string  `json:"stage_id"`
}

// TriggerEventRequest is the dispatch entry payload. Context carries
// event-specific data the trigger predicate matches against, such as form_id
// or from_status/to_status.
type TriggerEventRequest struct {
	Contact     ContactPayload      `json:"contact"               validate:"required"`
	Opportunity *OpportunityPayload `json:"opportunity,omitempty"`
	Context     map[string]any      `json:"context,omitempty"`
}

func (r *TriggerEventRequest) contact() *models.Contact {
	return &models.Contact{
		ID:       r.Contact.ID,
		TenantID: r.Contact.TenantID,
		Name:     r.Contact.Name,
		Email:    r.Contact.Email,
		Phone:    r.Contact.Phone,
	}
}

func (r *TriggerEventRequest) opportunity() *models.Opportunity {
	if r.Opportunity == nil {
		return nil
	}

	return &models.Opportunity{
		ID:       r.Opportunity.ID,
		TenantID: r.Contact.TenantID,
		Title:    r.Opportunity.Title,
		Value:    r.Opportunity.Value,
		StageID:  r.Opportunity.StageID,
	}
}
