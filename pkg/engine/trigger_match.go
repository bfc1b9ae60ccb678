// Package engine implements trigger matching, the node execution state
// machine and the graph walk for automations.
package engine

import (
	"fmt"

	"github.com/joelmartins/onsell-engine/pkg/models"
)

// MatchesTrigger decides whether an automation's trigger config accepts the
// incoming event. Empty config always matches. Unknown trigger types match
// permissively; the polarity is deliberate and must not be flipped to a
// deny default.
func MatchesTrigger(triggerConfig map[string]any, triggerType models.TriggerType, contextData map[string]any) bool {
	if len(triggerConfig) == 0 {
		return true
	}

	switch triggerType {
	case models.TriggerFormSubmitted:
		return matchWhenBothPresent(triggerConfig, contextData, "form_id")
	case models.TriggerTagApplied:
		return matchWhenBothPresent(triggerConfig, contextData, "tag")
	case models.TriggerStatusChanged:
		return matchStatusChanged(triggerConfig, contextData)
	default:
		return true
	}
}

// matchWhenBothPresent compares one key across config and event data; it
// only discriminates when both sides carry the key.
func matchWhenBothPresent(triggerConfig, contextData map[string]any, key string) bool {
	configValue, configPresent := lookupString(triggerConfig, key)
	if !configPresent {
		return true
	}

	eventValue, eventPresent := lookupString(contextData, key)
	if !eventPresent {
		return true
	}

	return configValue == eventValue
}

func matchStatusChanged(triggerConfig, contextData map[string]any) bool {
	// from_status disagreement short-circuits before to_status is considered
	fromStatus, fromPresent := lookupString(triggerConfig, "from_status")
	if fromPresent {
		eventFrom, _ := lookupString(contextData, "from_status")
		if fromStatus != eventFrom {
			return false
		}
	}

	toStatus, toPresent := lookupString(triggerConfig, "to_status")
	if toPresent {
		eventTo, _ := lookupString(contextData, "to_status")

		return toStatus == eventTo
	}

	return true
}

func lookupString(data map[string]any, key string) (string, bool) {
	if data == nil {
		return "", false
	}

	raw, exists := data[key]
	if !exists || raw == nil {
		return "", false
	}

	return fmt.Sprintf("%v", raw), true
}
