package client

import (
	"testing"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0 }

// 一条走廊：最左侧空格必定是砖块，掉落总是 none；玩家站在砖块右边
func newCorridorGame(t *testing.T) *Game {
	t.Helper()
	rules := core.DefaultRules()
	rules.CrateMax = 1
	rules.CrateProbability = 1

	geo := core.ParseLayout([]string{
		"WWWWWW",
		"W...PW",
		"WWWWWW",
	}, rules.TileSize)

	scene := NewScene(rules.TileSize)
	sim, err := core.NewSimulation(rules, geo, zeroRand{}, scene, zerolog.Nop())
	require.NoError(t, err)
	p, err := sim.AddPlayer(1)
	require.NoError(t, err)
	p.X, p.Y = core.TileKey{Col: 2, Row: 1}.Center(rules.TileSize)

	return NewGame(sim, scene, 1, ControlWASD)
}

// advanceTo 推进到 until；对局冻结后提前返回
func advanceTo(g *Game, until time.Duration) {
	for g.sim.Now() < until {
		before := g.sim.Now()
		g.tick(100*time.Millisecond, nil)
		if g.sim.Now() == before {
			return
		}
	}
}

func TestScene_TracksSimulationEntities(t *testing.T) {
	g := newCorridorGame(t)
	crate := core.TileKey{Col: 1, Row: 1}
	bombTile := core.TileKey{Col: 2, Row: 1}

	require.Equal(t, 1, g.scene.Count(core.EntityCrate))
	assert.Equal(t, crate, g.scene.Entities(core.EntityCrate)[0].Tile)
	assert.Equal(t, 1, g.scene.Count(core.EntityPlayer))

	g.tick(100*time.Millisecond, map[int]core.Intent{1: {PlaceBomb: true}})
	require.Equal(t, 1, g.scene.Count(core.EntityBomb))
	assert.Equal(t, bombTile, g.scene.Entities(core.EntityBomb)[0].Tile)

	advanceTo(g, 2100*time.Millisecond)
	assert.Equal(t, 0, g.scene.Count(core.EntityBomb))
	assert.Equal(t, 0, g.scene.Count(core.EntityCrate))
	assert.Equal(t, 3, g.scene.Count(core.EntityExplosion))

	anim, ok := g.scene.BlastAnimation(bombTile)
	require.True(t, ok)
	assert.Equal(t, "explosion-origin", anim)
	anim, ok = g.scene.BlastAnimation(crate)
	require.True(t, ok)
	assert.Equal(t, "explosion-mid-horizontal", anim)
	anim, ok = g.scene.BlastAnimation(core.TileKey{Col: 3, Row: 1})
	require.True(t, ok)
	assert.Equal(t, "explosion-end-right", anim)

	p, _ := g.sim.Player(1)
	pose, ok := g.scene.Pose(p.X, p.Y)
	require.True(t, ok)
	assert.Equal(t, "damage-front", pose)
	assert.False(t, g.gameOver)

	advanceTo(g, 2600*time.Millisecond)
	pose, _ = g.scene.Pose(p.X, p.Y)
	assert.Equal(t, "death-front", pose)
	assert.Equal(t, 0, g.scene.Count(core.EntityExplosion))
	_, ok = g.scene.BlastAnimation(bombTile)
	assert.False(t, ok)

	advanceTo(g, 3600*time.Millisecond)
	assert.Equal(t, 0, g.scene.Count(core.EntityPlayer))
	assert.True(t, g.gameOver)
}

func TestScene_OverlappingExplosionKeepsAnimation(t *testing.T) {
	s := NewScene(32)
	tile := core.TileKey{Col: 3, Row: 3}
	x, y := tile.Center(32)

	s.SpawnEntity(1, core.EntityExplosion, tile)
	s.PlayAnimation("explosion-end-left", x, y)
	s.SpawnEntity(2, core.EntityExplosion, tile)
	s.PlayAnimation("explosion-mid-horizontal", x, y)

	s.DestroyEntity(1)
	anim, ok := s.BlastAnimation(tile)
	require.True(t, ok)
	assert.Equal(t, "explosion-mid-horizontal", anim)

	s.DestroyEntity(2)
	_, ok = s.BlastAnimation(tile)
	assert.False(t, ok)

	// 重复销毁是无操作
	s.DestroyEntity(2)
	assert.Equal(t, 0, s.Count(core.EntityExplosion))
}

func TestScene_IgnoresMovementAnimations(t *testing.T) {
	s := NewScene(32)
	s.PlayAnimation("walk-left", 10, 10)
	s.PlayAnimation("idle-front", 10, 10)

	_, ok := s.Pose(10, 10)
	assert.False(t, ok)
	_, ok = s.BlastAnimation(core.TileKey{})
	assert.False(t, ok)
}

func TestIntentFrom(t *testing.T) {
	pressed := map[ebiten.Key]bool{ebiten.KeyW: true, ebiten.KeySpace: true, ebiten.KeyArrowLeft: true}
	is := func(k ebiten.Key) bool { return pressed[k] }

	assert.Equal(t, core.Intent{Up: true, PlaceBomb: true}, IntentFrom(ControlWASD, is))
	assert.Equal(t, core.Intent{Left: true}, IntentFrom(ControlArrow, is))
}

func TestGame_ScreenSizeIncludesHUD(t *testing.T) {
	g := newCorridorGame(t)
	w, h := g.ScreenSize()
	assert.Equal(t, 6*core.DefaultTileSize, w)
	assert.Equal(t, 3*core.DefaultTileSize+hudHeight, h)
}

func TestGame_OpponentDeathEndsMatchAndDrainsEvents(t *testing.T) {
	rules := core.DefaultRules()
	rules.CrateMax = 0
	geo := core.ParseLayout([]string{
		"WWWWWWWW",
		"WP....PW",
		"WWWWWWWW",
	}, rules.TileSize)

	scene := NewScene(rules.TileSize)
	sim, err := core.NewSimulation(rules, geo, zeroRand{}, scene, zerolog.Nop())
	require.NoError(t, err)
	local, err := sim.AddPlayer(1)
	require.NoError(t, err)
	rival, err := sim.AddPlayer(2)
	require.NoError(t, err)
	rival.X, rival.Y = core.TileKey{Col: 5, Row: 1}.Center(rules.TileSize)

	g := NewGame(sim, scene, 1, ControlWASD)
	g.tick(100*time.Millisecond, map[int]core.Intent{2: {PlaceBomb: true}})
	require.Len(t, sim.Bombs(), 1)

	advanceTo(g, 2100*time.Millisecond)
	assert.True(t, local.Alive())
	assert.False(t, rival.Alive())
	assert.True(t, g.gameOver)

	x := local.X
	g.tick(100*time.Millisecond, map[int]core.Intent{1: {Right: true}})
	assert.Equal(t, x, local.X, "结束后忽略输入")

	advanceTo(g, 3600*time.Millisecond)
	assert.Equal(t, 1, scene.Count(core.EntityPlayer))
	assert.Equal(t, 0, scene.Count(core.EntityExplosion))
	assert.Equal(t, 0, sim.Pending())

	now := sim.Now()
	g.tick(100*time.Millisecond, nil)
	assert.Equal(t, now, sim.Now(), "事件处理完后停止推进")
}
