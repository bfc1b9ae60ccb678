package engine

import (
	"testing"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestMatchesTrigger_EmptyConfigMatchesEverything(t *testing.T) {
	assert.True(t, MatchesTrigger(nil, models.TriggerFormSubmitted, map[string]any{"form_id": "f-1"}))
	assert.True(t, MatchesTrigger(map[string]any{}, models.TriggerTagApplied, nil))
}

func TestMatchesTrigger_FormSubmitted(t *testing.T) {
	config := map[string]any{"form_id": "f-1"}

	assert.True(t, MatchesTrigger(config, models.TriggerFormSubmitted, map[string]any{"form_id": "f-1"}))
	assert.False(t, MatchesTrigger(config, models.TriggerFormSubmitted, map[string]any{"form_id": "f-2"}))

	// event without the key does not discriminate
	assert.True(t, MatchesTrigger(config, models.TriggerFormSubmitted, map[string]any{}))
	assert.True(t, MatchesTrigger(config, models.TriggerFormSubmitted, nil))
}

func TestMatchesTrigger_TagApplied(t *testing.T) {
	config := map[string]any{"tag": "vip"}

	assert.True(t, MatchesTrigger(config, models.TriggerTagApplied, map[string]any{"tag": "vip"}))
	assert.False(t, MatchesTrigger(config, models.TriggerTagApplied, map[string]any{"tag": "cold"}))
	assert.True(t, MatchesTrigger(config, models.TriggerTagApplied, map[string]any{"other": "vip"}))
}

func TestMatchesTrigger_StatusChanged(t *testing.T) {
	tests := []struct {
		name        string
		config      map[string]any
		contextData map[string]any
		want        bool
	}{
		{
			name:        "both match",
			config:      map[string]any{"from_status": "new", "to_status": "won"},
			contextData: map[string]any{"from_status": "new", "to_status": "won"},
			want:        true,
		},
		{
			name:        "from mismatch short-circuits",
			config:      map[string]any{"from_status": "new", "to_status": "won"},
			contextData: map[string]any{"from_status": "open", "to_status": "won"},
			want:        false,
		},
		{
			name:        "from mismatch even when event omits it",
			config:      map[string]any{"from_status": "new"},
			contextData: map[string]any{"to_status": "won"},
			want:        false,
		},
		{
			name:        "to only, match",
			config:      map[string]any{"to_status": "won"},
			contextData: map[string]any{"from_status": "anything", "to_status": "won"},
			want:        true,
		},
		{
			name:        "to only, mismatch",
			config:      map[string]any{"to_status": "won"},
			contextData: map[string]any{"to_status": "lost"},
			want:        false,
		},
		{
			name:        "config keys unrelated to status do not discriminate",
			config:      map[string]any{"note": "anything"},
			contextData: map[string]any{"to_status": "won"},
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesTrigger(tt.config, models.TriggerStatusChanged, tt.contextData))
		})
	}
}

func TestMatchesTrigger_UnknownTypeMatchesPermissively(t *testing.T) {
	config := map[string]any{"anything": "at all"}

	assert.True(t, MatchesTrigger(config, models.TriggerType("webhook_received"), nil))
}

func TestMatchesTrigger_NonStringConfigValuesAreCoerced(t *testing.T) {
	config := map[string]any{"form_id": 42}

	assert.True(t, MatchesTrigger(config, models.TriggerFormSubmitted, map[string]any{"form_id": "42"}))
	assert.False(t, MatchesTrigger(config, models.TriggerFormSubmitted, map[string]any{"form_id": "43"}))
}
