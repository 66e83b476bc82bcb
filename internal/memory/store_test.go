package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbobot/internal/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	store, err := memory.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateSession(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, err := store.CreateSession(ctx)
	require.NoError(t, err)
	b, err := store.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	n, err := store.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAddInteractionAndRecent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, store.AddInteraction(ctx, id, "What causes bearing failure?", "Usually lubrication breakdown."))
	require.NoError(t, store.AddInteraction(ctx, id, "How often should I inspect?", "Quarterly, per the manual."))

	msgs, err := store.Recent(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "What causes bearing failure?", msgs[0].Content)
	assert.Equal(t, "assistant", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[3].Role)
	assert.Equal(t, "Quarterly, per the manual.", msgs[3].Content)
}

func TestRecent_LimitKeepsLatestTurns(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		q := fmt.Sprintf("question %d", i)
		a := fmt.Sprintf("answer %d", i)
		require.NoError(t, store.AddInteraction(ctx, id, q, a))
	}

	msgs, err := store.Recent(ctx, id, 4)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "question 3", msgs[0].Content)
	assert.Equal(t, "answer 4", msgs[3].Content)
}

func TestRecent_IsolatedPerSession(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, _ := store.CreateSession(ctx)
	b, _ := store.CreateSession(ctx)
	require.NoError(t, store.AddInteraction(ctx, a, "q-a", "ans-a"))
	require.NoError(t, store.AddInteraction(ctx, b, "q-b", "ans-b"))

	msgs, err := store.Recent(ctx, a, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "q-a", msgs[0].Content)
}
