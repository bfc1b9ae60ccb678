package models

import "time"

// RunStatus defines the possible states of a run's most recent node attempt.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// AutomationRun is one execution instance of an automation for one contact.
// It is a progress pointer, not a history ledger: NodeID and Status are
// overwritten in place as the walk advances, Context accumulates across
// nodes, and Result holds only the most recently executed node's output.
// Under branch fan-out, concurrent workers overwrite these fields
// last-writer-wins; there is no cross-worker locking.
type AutomationRun struct {
	ID            string         `json:"id"`
	AutomationID  string         `json:"automation_id"`
	ContactID     string         `json:"contact_id"`
	OpportunityID *string        `json:"opportunity_id,omitempty"`
	NodeID        string         `json:"node_id"`
	Status        RunStatus      `json:"status"`
	Message       string         `json:"message,omitempty"`
	Context       map[string]any `json:"context"`
	Result        map[string]any `json:"result,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// MergeContext merges entries into the run context, last writer wins on
// conflicting keys. The context map is never replaced wholesale.
func (r *AutomationRun) MergeContext(entries map[string]any) {
	if r.Context == nil {
		r.Context = make(map[string]any)
	}

	for k, v := range entries {
		r.Context[k] = v
	}
}
