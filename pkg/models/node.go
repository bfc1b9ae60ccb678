package models

import (
	"fmt"
	"strconv"
)

// NodeType represents the execution behavior of a node.
type NodeType string

const (
	NodeTypeTrigger   NodeType = "trigger"
	NodeTypeAction    NodeType = "action"
	NodeTypeCondition NodeType = "condition"
	NodeTypeDelay     NodeType = "delay"
)

// DefaultDelayMinutes is applied when a delay node does not configure one.
const DefaultDelayMinutes = 5

// AutomationNode is a graph vertex. NodeID is a graph-local string
// identifier, stable across edits; it is not the storage primary key.
// Position fields are layout-only and ignored by execution.
type AutomationNode struct {
	NodeID    string         `json:"node_id" validate:"required"`
	Type      NodeType       `json:"type"    validate:"required"`
	Config    map[string]any `json:"config"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
}

// ActionType returns the configured action type for action nodes.
func (n *AutomationNode) ActionType() string {
	if n.Config == nil {
		return ""
	}

	actionType, _ := n.Config["action_type"].(string)

	return actionType
}

// DelayMinutes returns the configured delay for delay nodes, falling back to
// DefaultDelayMinutes when absent or unparseable.
func (n *AutomationNode) DelayMinutes() int {
	if n.Config == nil {
		return DefaultDelayMinutes
	}

	raw, exists := n.Config["delay_minutes"]
	if !exists {
		return DefaultDelayMinutes
	}

	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return DefaultDelayMinutes
		}

		return minutes
	default:
		return DefaultDelayMinutes
	}
}

// ConfigString returns a config entry coerced to string, for the opaque
// key/value conventions used by action and condition configs.
func (n *AutomationNode) ConfigString(key string) (string, bool) {
	if n.Config == nil {
		return "", false
	}

	raw, exists := n.Config[key]
	if !exists || raw == nil {
		return "", false
	}

	return fmt.Sprintf("%v", raw), true
}
