package sendwhatsapp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/joelmartins/onsell-engine/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	lastContent string
	lastMedia   string
	payload     map[string]any
	err         error
}

func (f *fakeMessenger) SendMessage(_ context.Context, _ *models.Contact, content string, mediaURL string) (map[string]any, error) {
	f.lastContent = content
	f.lastMedia = mediaURL

	return f.payload, f.err
}

func testExecution() models.Execution {
	return models.Execution{
		RunID:   "run-1",
		Contact: &models.Contact{ID: "c-1", Phone: "+5511999999999"},
	}
}

func TestAction_Execute_ReturnsProviderPayloadVerbatim(t *testing.T) {
	messenger := &fakeMessenger{payload: map[string]any{"success": true, "message_id": "m-1"}}

	action := NewAction(map[string]any{
		"message":   "Olá {{nome}}",
		"media_url": "https://cdn.example.com/promo.png",
	}, messenger)

	payload, err := action.Execute(context.Background(), testExecution(), slog.New(slog.NewTextHandler(os.Stdout, nil)))
	require.NoError(t, err)

	assert.Equal(t, messenger.payload, payload)
	assert.Equal(t, "Olá {{nome}}", messenger.lastContent)
	assert.Equal(t, "https://cdn.example.com/promo.png", messenger.lastMedia)
}

func TestAction_Execute_PropagatesDeliveryError(t *testing.T) {
	messenger := &fakeMessenger{err: errors.New("gateway timeout")}

	action := NewAction(map[string]any{"message": "oi"}, messenger)

	payload, err := action.Execute(context.Background(), testExecution(), slog.New(slog.NewTextHandler(os.Stdout, nil)))
	assert.Error(t, err)
	assert.Nil(t, payload)
	assert.Contains(t, err.Error(), "message delivery failed")
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&fakeMessenger{})

	assert.Equal(t, "send_whatsapp", factory.ID())

	action, err := factory.Create(nil)
	require.NoError(t, err)
	assert.NotNil(t, action)

	schema := factory.Schema()
	assert.Equal(t, "object", schema["type"])
}
