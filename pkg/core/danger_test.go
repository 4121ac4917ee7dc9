package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulation_DangerTracksEarliestFuse(t *testing.T) {
	rules := DefaultRules()
	rules.CrateMax = 0
	rules.Stats.BombCapacity = 2
	rng := &scriptedRand{values: []float64{0.9}}
	sim, _ := newTestSimulation(t, openArena, rules, rng)
	p, err := sim.AddPlayer(1)
	require.NoError(t, err)

	assert.Equal(t, 0, sim.Danger().Len())

	standOn(p, TileKey{Col: 5, Row: 4})
	sim.Step(0, map[int]Intent{1: {PlaceBomb: true}})
	danger := sim.Danger()
	assert.Equal(t, 5, danger.Len())
	at, ok := danger.At(TileKey{Col: 5, Row: 3})
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, at)
	assert.False(t, danger.InDanger(TileKey{Col: 5, Row: 2}))

	sim.Step(500*time.Millisecond, nil)
	standOn(p, TileKey{Col: 7, Row: 4})
	sim.Step(0, map[int]Intent{1: {PlaceBomb: true}})
	require.Len(t, sim.Bombs(), 2)

	danger = sim.Danger()
	at, _ = danger.At(TileKey{Col: 6, Row: 4})
	assert.Equal(t, 2*time.Second, at)
	at, _ = danger.At(TileKey{Col: 8, Row: 4})
	assert.Equal(t, 2500*time.Millisecond, at)
	assert.Equal(t, 9, danger.Len())

	sim.Step(2*time.Second, nil)
	assert.Equal(t, 0, sim.Danger().Len())
}

func TestSimulation_DangerDoesNotRollDrops(t *testing.T) {
	layout := []string{
		"WWWWWW",
		"WP...W",
		"WWWWWW",
	}
	rules := DefaultRules()
	rules.CrateMax = 1
	rules.CrateProbability = 1
	rng := &scriptedRand{values: []float64{0}}
	sim, _ := newTestSimulation(t, layout, rules, rng)
	p, err := sim.AddPlayer(1)
	require.NoError(t, err)
	require.True(t, sim.HasCrate(TileKey{Col: 2, Row: 1}))

	standOn(p, TileKey{Col: 3, Row: 1})
	sim.Step(0, map[int]Intent{1: {PlaceBomb: true}})
	require.Len(t, sim.Bombs(), 1)
	before := rng.i
	danger := sim.Danger()
	assert.Equal(t, before, rng.i)

	assert.True(t, danger.InDanger(TileKey{Col: 2, Row: 1}))
	assert.True(t, danger.InDanger(TileKey{Col: 4, Row: 1}))
	assert.False(t, danger.InDanger(TileKey{Col: 1, Row: 1}), "砖块后方")
	assert.True(t, sim.HasCrate(TileKey{Col: 2, Row: 1}))
}
