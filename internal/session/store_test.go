package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTracksAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	store.Put(1, TrackVocab, &Session{Track: TrackVocab, Attempt: 1})
	store.Put(1, TrackClosed, &Session{Track: TrackClosed, Attempt: 2})

	vocab, ok := store.Get(1, TrackVocab)
	require.True(t, ok)
	assert.Equal(t, 1, vocab.Attempt)

	closed, ok := store.Get(1, TrackClosed)
	require.True(t, ok)
	assert.Equal(t, 2, closed.Attempt)

	_, ok = store.Get(1, TrackOpen)
	assert.False(t, ok)

	store.Delete(1, TrackVocab)
	_, ok = store.Get(1, TrackVocab)
	assert.False(t, ok)
	_, ok = store.Get(1, TrackClosed)
	assert.True(t, ok)
}

func TestMemoryStoreStudentsAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	store.Put(1, TrackVocab, &Session{Track: TrackVocab, Attempt: 1})

	_, ok := store.Get(2, TrackVocab)
	assert.False(t, ok)
}

func TestMemoryStorePutReplaces(t *testing.T) {
	store := NewMemoryStore()
	store.Put(1, TrackVocab, &Session{Track: TrackVocab, Attempt: 1})
	store.Put(1, TrackVocab, &Session{Track: TrackVocab, Attempt: 2})

	s, ok := store.Get(1, TrackVocab)
	require.True(t, ok)
	assert.Equal(t, 2, s.Attempt)
}

func TestMemoryStoreDeleteMissingIsNoop(t *testing.T) {
	store := NewMemoryStore()
	store.Delete(99, TrackOpen)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Put(id, TrackVocab, &Session{Track: TrackVocab, Attempt: 1})
			store.Get(id, TrackVocab)
			store.Delete(id, TrackVocab)
		}(int64(i))
	}
	wg.Wait()
}
