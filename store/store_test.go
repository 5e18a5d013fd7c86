package store_test

import (
	"fmt"
	"sync"
	"testing"

	counsel "github.com/mlevan/counsel"
	"github.com/mlevan/counsel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Create(t *testing.T) {
	t.Parallel()

	s := store.New()
	id := s.Create()
	require.NotEmpty(t, id)

	history := s.History(id)
	assert.Empty(t, history)

	stats, ok := s.Stats(id)
	require.True(t, ok)
	assert.Zero(t, stats.TurnCount)
}

func TestStore_Append(t *testing.T) {
	t.Parallel()

	t.Run("creates session on first append", func(t *testing.T) {
		t.Parallel()

		s := store.New()
		history := s.Append("sess-1", counsel.NewUserTurn("hello"))
		require.Len(t, history, 1)
		assert.Equal(t, "hello", history[0].Content)
	})

	t.Run("keeps arrival order", func(t *testing.T) {
		t.Parallel()

		s := store.New()
		s.Append("sess-1", counsel.NewUserTurn("first"))
		s.Append("sess-1", counsel.NewAssistantTurn("second", 10))
		history := s.History("sess-1")

		require.Len(t, history, 2)
		assert.Equal(t, "first", history[0].Content)
		assert.Equal(t, "second", history[1].Content)
	})

	t.Run("evicts oldest beyond bound", func(t *testing.T) {
		t.Parallel()

		s := store.New(store.WithMaxTurns(4))
		for i := 0; i < 9; i++ {
			s.Append("sess-1", counsel.NewUserTurn(fmt.Sprintf("msg-%d", i)))
		}

		history := s.History("sess-1")
		require.Len(t, history, 4)
		assert.Equal(t, "msg-5", history[0].Content)
		assert.Equal(t, "msg-8", history[3].Content)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		t.Parallel()

		s := store.New()
		s.Append("a", counsel.NewUserTurn("for a"))
		s.Append("b", counsel.NewUserTurn("for b"))

		require.Len(t, s.History("a"), 1)
		require.Len(t, s.History("b"), 1)
		assert.Equal(t, "for a", s.History("a")[0].Content)
	})
}

func TestStore_Stats(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Append("sess-1", counsel.NewUserTurn("q"))
	s.Append("sess-1", counsel.NewAssistantTurn("a", 25))

	stats, ok := s.Stats("sess-1")
	require.True(t, ok)
	assert.Equal(t, 2, stats.TurnCount)
	assert.Equal(t, 25, stats.TotalTokens)

	_, ok = s.Stats("missing")
	assert.False(t, ok)
}

func TestStore_TokensSurviveEviction(t *testing.T) {
	t.Parallel()

	s := store.New(store.WithMaxTurns(2))
	for i := 0; i < 5; i++ {
		s.Append("sess-1", counsel.NewAssistantTurn("a", 10))
	}

	stats, ok := s.Stats("sess-1")
	require.True(t, ok)
	assert.Equal(t, 2, stats.TurnCount)
	assert.Equal(t, 50, stats.TotalTokens)
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Append("sess-1", counsel.NewUserTurn("q"))
	s.Clear("sess-1")

	assert.Empty(t, s.History("sess-1"))
	stats, ok := s.Stats("sess-1")
	require.True(t, ok)
	assert.Zero(t, stats.TotalTokens)

	// Clearing an unknown session is a no-op.
	s.Clear("missing")
}

func TestStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()

	s := store.New(store.WithMaxTurns(0))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Append("shared", counsel.NewUserTurn("x"))
			}
		}()
	}
	wg.Wait()

	assert.Len(t, s.History("shared"), 400)
}
