package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/ryoku/internal/models"
	"github.com/wuwenbin0122/ryoku/internal/store"
	"github.com/wuwenbin0122/ryoku/internal/utils"
)

var sampleHistory = []models.Message{
	{Role: models.RoleSystem, Content: "persona"},
	{Role: models.RoleUser, Content: "Teach me Python loops"},
	{Role: models.RoleAssistant, Content: "for loops iterate"},
}

func TestStatelessNeverRemembers(t *testing.T) {
	ctx := context.Background()
	s := store.Stateless{}

	require.NoError(t, s.Save(ctx, "u1", sampleHistory))
	loaded := s.Load(ctx, "u1")
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestMemoryRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	assert.Empty(t, s.Load(ctx, "u1"))

	require.NoError(t, s.Save(ctx, "u1", sampleHistory))
	assert.Equal(t, sampleHistory, s.Load(ctx, "u1"))
	assert.Empty(t, s.Load(ctx, "u2"))

	require.NoError(t, s.Delete(ctx, "u1"))
	assert.Empty(t, s.Load(ctx, "u1"))
}

func TestMemoryIsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	history := models.CloneMessages(sampleHistory)
	require.NoError(t, s.Save(ctx, "u1", history))
	history[0].Content = "mutated"

	loaded := s.Load(ctx, "u1")
	assert.Equal(t, "persona", loaded[0].Content)

	extended := append(loaded, models.Message{Role: models.RoleUser, Content: "extra"})
	assert.Len(t, extended, len(sampleHistory)+1)
	assert.Len(t, s.Load(ctx, "u1"), len(sampleHistory))
}

func TestOpenSelectsVariant(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	s, closeFn, err := store.Open(ctx, utils.DatabaseConfig{}, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, store.Stateless{}, s)

	s, closeFn, err = store.Open(ctx, utils.DatabaseConfig{URL: "memory://"}, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &store.Memory{}, s)

	_, closeFn, err = store.Open(ctx, utils.DatabaseConfig{URL: "sqlite:///tmp/ryoku.db"}, logger)
	assert.ErrorIs(t, err, store.ErrUnsupportedURL)
	assert.NotNil(t, closeFn)
}
