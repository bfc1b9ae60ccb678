package models

// Edge condition paths, meaningful only when the source node is a condition
// node.
const (
	EdgePathTrue  = "true"
	EdgePathFalse = "false"
)

// AutomationEdge is a directed connection between two nodes, referenced by
// their graph-local node ids rather than storage keys so the graph can be
// replaced wholesale on edit.
type AutomationEdge struct {
	SourceNodeID string         `json:"source_node_id" validate:"required"`
	TargetNodeID string         `json:"target_node_id" validate:"required"`
	Label        string         `json:"label,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
}

// ConditionPath returns the edge's branch discriminator ("true"/"false")
// when the edge carries a condition in its config. Edges without one are
// followed unconditionally.
func (e *AutomationEdge) ConditionPath() (string, bool) {
	if e.Config == nil {
		return "", false
	}

	condition, ok := e.Config["condition"].(map[string]any)
	if !ok {
		return "", false
	}

	path, ok := condition["path"].(string)
	if !ok {
		return "", false
	}

	return path, true
}
