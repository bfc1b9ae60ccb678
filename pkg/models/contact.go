package models

// Contact is the engine's view of a CRM contact. Only the fields the engine
// snapshots into run context are carried; the full contact record lives with
// the CRM side.
type Contact struct {
	ID       string `json:"id"    validate:"required"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Snapshot returns the fixed projection seeded into run context at run
// creation. It stays static for the lifetime of the run.
func (c *Contact) Snapshot() map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
	}
}

// Field resolves a contact attribute by name for condition evaluation.
func (c *Contact) Field(name string) (any, bool) {
	value, exists := c.Snapshot()[name]

	return value, exists
}

// ContactFromSnapshot rebuilds a contact from the projection stored in run
// context. Workers hold no CRM connection; the snapshot is all they see.
func ContactFromSnapshot(snapshot map[string]any) *Contact {
	if snapshot == nil {
		return &Contact{}
	}

	contact := &Contact{}
	contact.ID, _ = snapshot["id"].(string)
	contact.Name, _ = snapshot["name"].(string)
	contact.Email, _ = snapshot["email"].(string)
	contact.Phone, _ = snapshot["phone"].(string)

	return contact
}

// Opportunity is the engine's view of a pipeline opportunity.
type Opportunity struct {
	ID       string  `json:"id" validate:"required"`
	TenantID string  `json:"tenant_id"`
	Title    string  `json:"title"`
	Value    float64 `json:"value"`
	StageID  string  `json:"stage_id"`
}

// Snapshot returns the fixed projection seeded into run context.
func (o *Opportunity) Snapshot() map[string]any {
	return map[string]any{
		"id":       o.ID,
		"title":    o.Title,
		"value":    o.Value,
		"stage_id": o.StageID,
	}
}

// OpportunityFromSnapshot rebuilds an opportunity from the projection stored
// in run context. Returns nil when the run has no opportunity.
func OpportunityFromSnapshot(snapshot map[string]any) *Opportunity {
	if snapshot == nil {
		return nil
	}

	opportunity := &Opportunity{}
	opportunity.ID, _ = snapshot["id"].(string)
	opportunity.Title, _ = snapshot["title"].(string)
	opportunity.StageID, _ = snapshot["stage_id"].(string)

	switch value := snapshot["value"].(type) {
	case float64:
		opportunity.Value = value
	case int:
		opportunity.Value = float64(value)
	}

	return opportunity
}

// Field resolves an opportunity attribute by name for condition evaluation.
func (o *Opportunity) Field(name string) (any, bool) {
	value, exists := o.Snapshot()[name]

	return value, exists
}
