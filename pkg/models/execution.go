package models

// Execution carries the per-run data handed to actions and condition
// evaluation: the contact, the optional opportunity and the accumulated run
// context. Contact and opportunity are the snapshots taken at dispatch time.
type Execution struct {
	RunID       string         `json:"run_id"`
	Contact     *Contact       `json:"contact"`
	Opportunity *Opportunity   `json:"opportunity,omitempty"`
	Context     map[string]any `json:"context"`
}
