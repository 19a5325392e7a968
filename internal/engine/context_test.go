package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/chatcore/internal/models"
)

func TestContextStore_LazyCreate(t *testing.T) {
	s := NewContextStore(0, 0)

	_, ok := s.Get("alice")
	assert.False(t, ok)

	s.With("alice", func(uc *models.UserContext) {
		assert.Equal(t, models.MoodNeutral, uc.Mood)
		uc.LastMessage = "hi"
	})

	uc, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "hi", uc.LastMessage)
	assert.Equal(t, 1, s.Len())
}

func TestContextStore_Bounded(t *testing.T) {
	s := NewContextStore(2, 0)

	for _, id := range []string{"a", "b", "c"} {
		s.With(id, func(uc *models.UserContext) { uc.LastMessage = id })
	}

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("c")
	assert.True(t, ok)
}

func TestContextStore_SerializesPerSender(t *testing.T) {
	s := NewContextStore(0, 0)
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.With("same", func(uc *models.UserContext) {
				counter++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}
