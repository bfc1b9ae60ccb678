package addtag

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

type fakeTagStore struct {
	applied []string
	err     error
}

func (f *fakeTagStore) ApplyTag(_ context.Context, _ *models.Contact, tag string) error {
	f.applied = append(f.applied, tag)

	return f.err
}

func TestAction_Execute_AppliesTag(t *testing.T) {
	store := &fakeTagStore{}
	action := NewAction(map[string]any{"tag": "vip"}, store)

	execution := models.Execution{
		RunID:   "run-1",
		Contact: &models.Contact{ID: "c-1"},
	}

	payload, err := action.Execute(context.Background(), execution, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	require.NoError(t, err)

	assert.Equal(t, []string{"vip"}, store.applied)
	assert.Equal(t, map[string]any{
		"success":     true,
		"action_type": "add_tag",
		"tag":         "vip",
	}, payload)
}

func TestAction_Execute_PropagatesStoreError(t *testing.T) {
	store := &fakeTagStore{err: errors.New("tenant store unavailable")}
	action := NewAction(map[string]any{"tag": "vip"}, store)

	execution := models.Execution{Contact: &models.Contact{ID: "c-1"}}

	payload, err := action.Execute(context.Background(), execution, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	assert.Error(t, err)
	assert.Nil(t, payload)
}

func TestActionFactory(t *testing.T) {
	factory := NewActionFactory(&fakeTagStore{})

	assert.Equal(t, "add_tag", factory.ID())

	action, err := factory.Create(map[string]any{"tag": "vip"})
	require.NoError(t, err)
	assert.NotNil(t, action)
}
