package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/domain/panel"
)

func specFixture() panel.PanelSpec {
	return panel.PanelSpec{
		WidthMm:           1000,
		HeightMm:          500,
		SheetResistance:   20,
		EdgeMarginMm:      10,
		BusbarWidthMm:     15,
		Orientation:       panel.BusbarsLeftRight,
		BusbarClearanceMm: 5,
		IslandSideMm:      20,
		GapMm:             2,
	}
}

func okResult(r float64) *panel.SolveResult {
	return &panel.SolveResult{Status: panel.SolveOk, ResistanceOhm: r, Converged: true}
}

func TestSolveKey_QuantizationEquality(t *testing.T) {
	a := specFixture()
	b := specFixture()
	b.WidthMm += 0.0004 // below the 1/1000 resolution
	assert.Equal(t, NewSolveKey(a, 2.0, 1.0), NewSolveKey(b, 2.0, 1.0))

	c := specFixture()
	c.WidthMm += 0.001
	assert.NotEqual(t, NewSolveKey(a, 2.0, 1.0), NewSolveKey(c, 2.0, 1.0))

	// The mesh step is part of the key.
	assert.NotEqual(t, NewSolveKey(a, 2.0, 1.0), NewSolveKey(a, 4.0, 1.0))

	d := specFixture()
	d.Orientation = panel.BusbarsTopBottom
	assert.NotEqual(t, NewSolveKey(a, 2.0, 1.0), NewSolveKey(d, 2.0, 1.0))
}

func TestSolveCache_HitAndMiss(t *testing.T) {
	c := NewSolveCache(4)
	key := NewSolveKey(specFixture(), 2.0, 1.0)

	_, ok := c.Get(key)
	require.False(t, ok)

	c.Put(key, okResult(42))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 42.0, got.ResistanceOhm)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func keyN(n int) SolveKey {
	spec := specFixture()
	spec.IslandSideMm = float64(10 + n)
	return NewSolveKey(spec, 2.0, 1.0)
}

func TestSolveCache_LRUEviction(t *testing.T) {
	c := NewSolveCache(3)
	for i := 0; i < 3; i++ {
		c.Put(keyN(i), okResult(float64(i)))
	}

	// Touch key 0 so key 1 becomes the eviction victim.
	_, ok := c.Get(keyN(0))
	require.True(t, ok)

	c.Put(keyN(3), okResult(3))
	assert.Equal(t, 3, c.Len())

	_, ok = c.Get(keyN(1))
	assert.False(t, ok, "least recently used entry should be gone")
	_, ok = c.Get(keyN(0))
	assert.True(t, ok)
	_, ok = c.Get(keyN(3))
	assert.True(t, ok)
}

func TestSolveCache_PutRefreshesExisting(t *testing.T) {
	c := NewSolveCache(2)
	c.Put(keyN(0), okResult(1))
	c.Put(keyN(1), okResult(2))

	// Re-putting key 0 refreshes it; inserting key 2 then evicts key 1.
	c.Put(keyN(0), okResult(10))
	c.Put(keyN(2), okResult(3))

	got, ok := c.Get(keyN(0))
	require.True(t, ok)
	assert.Equal(t, 10.0, got.ResistanceOhm)
	_, ok = c.Get(keyN(1))
	assert.False(t, ok)
}

func TestSolveCache_Purge(t *testing.T) {
	c := NewSolveCache(4)
	c.Put(keyN(0), okResult(1))
	c.Purge()
	assert.Zero(t, c.Len())
	_, ok := c.Get(keyN(0))
	assert.False(t, ok)
}

func TestSolveCache_ConcurrentAccess(t *testing.T) {
	c := NewSolveCache(64)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := keyN(i % 32)
				if _, ok := c.Get(k); !ok {
					c.Put(k, okResult(float64(i)))
				}
			}
		}(w)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, uint64(1600), stats.Hits+stats.Misses)
	assert.LessOrEqual(t, c.Len(), 64)
}

func TestSolveKey_StringIsStable(t *testing.T) {
	k := NewSolveKey(specFixture(), 2.0, 1.0)
	assert.Equal(t, k.String(), k.String())
	assert.Contains(t, k.String(), fmt.Sprintf("%d", k.Width))
	assert.NotEqual(t, k.String(), NewSolveKey(specFixture(), 4.0, 1.0).String())
}
