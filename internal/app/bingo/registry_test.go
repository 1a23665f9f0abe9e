package bingo

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPutGetDelete(t *testing.T) {
	r := NewRegistry[player]()
	p := newPlayer("Domo", 1)

	r.Put(p)
	got, ok := r.Get(p.id)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, 1, r.Len())

	removed, ok := r.Delete(p.id)
	require.True(t, ok)
	assert.Equal(t, p, removed)

	_, ok = r.Get(p.id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryPutOverwrites(t *testing.T) {
	r := NewRegistry[player]()
	p := newPlayer("Domo", 1)
	r.Put(p)

	p.team = 2
	r.Put(p)

	got, ok := r.Get(p.id)
	require.True(t, ok)
	assert.Equal(t, 2, got.team)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryMissing(t *testing.T) {
	r := NewRegistry[player]()

	_, ok := r.Get(uuid.New())
	assert.False(t, ok)

	_, ok = r.Delete(uuid.New())
	assert.False(t, ok)

	called := false
	_, ok = r.Update(uuid.New(), func(p player) player {
		called = true
		return p
	})
	assert.False(t, ok)
	assert.False(t, called, "update callback must not run for unknown ids")
}

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry[player]()
	p := newPlayer("Domo", NoTeam)
	r.Put(p)

	updated, ok := r.Update(p.id, func(p player) player {
		p.team = 3
		return p
	})
	require.True(t, ok)
	assert.Equal(t, 3, updated.team)

	got, _ := r.Get(p.id)
	assert.Equal(t, 3, got.team)
}

func TestRegistryConcurrentDisjointKeys(t *testing.T) {
	r := NewRegistry[player]()

	const workers = 32
	const perWorker = 200

	kept := make([][]player, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				p := newPlayer("p", w)
				r.Put(p)
				if i%2 == 0 {
					if _, ok := r.Delete(p.id); !ok {
						t.Errorf("worker %d lost its own entry", w)
					}
					continue
				}
				kept[w] = append(kept[w], p)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker/2, r.Len())
	for _, ps := range kept {
		for _, p := range ps {
			_, ok := r.Get(p.id)
			assert.True(t, ok)
		}
	}
}
