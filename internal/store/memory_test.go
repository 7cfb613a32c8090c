package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcgraw/holdle/internal/game"
	"github.com/hmcgraw/holdle/internal/puzzle"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	rec := &puzzle.Record{
		ID:       "mem-test",
		HeroHand: []string{"Qs", "Qd"},
		ActionHistory: []puzzle.Street{
			{Name: "river", CardsShown: []string{"2c", "7d", "Js", "Td", "3h"}},
		},
		VillainSolution: []string{"Ah", "Kd"},
	}
	s, err := game.NewSession(rec)
	require.NoError(t, err)
	return s
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	sess := newSession(t)

	require.NoError(t, st.Save(ctx, sess))
	got, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestMemoryStoreMissing(t *testing.T) {
	st := NewMemoryStore()
	_, err := st.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	sessions := make([]*game.Session, 16)
	for i := range sessions {
		sessions[i] = newSession(t)
	}

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(s *game.Session) {
			defer wg.Done()
			_ = st.Save(ctx, s)
			_, _ = st.Get(ctx, s.ID)
		}(sess)
	}
	wg.Wait()
}
