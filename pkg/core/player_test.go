package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStats(t *testing.T) {
	s, err := NewStats(2, 3, 90)
	require.NoError(t, err)
	assert.Equal(t, Stats{BombCapacity: 2, BlastRadius: 3, Speed: 90}, s)

	_, err = NewStats(0, 1, 80)
	assert.ErrorIs(t, err, ErrInvalidStats)
	_, err = NewStats(1, -1, 80)
	assert.ErrorIs(t, err, ErrInvalidStats)
	_, err = NewStats(1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidStats)
}

func TestPlayer_KillOnce(t *testing.T) {
	p := newTestPlayer(1, TileKey{Col: 1, Row: 1}, DefaultStats())
	p.Moving = true

	assert.True(t, p.Kill())
	assert.False(t, p.Kill())
	assert.False(t, p.Alive())
	assert.False(t, p.Moving)
}

func TestPlayer_ApplyDropOnlyWhileAlive(t *testing.T) {
	table, err := NewDropTable(DefaultDrops, 20, &scriptedRand{values: []float64{0}})
	require.NoError(t, err)
	p := newTestPlayer(1, TileKey{Col: 1, Row: 1}, DefaultStats())

	assert.True(t, p.ApplyDrop(table, DropRadius))
	assert.False(t, p.ApplyDrop(table, DropNone))
	assert.Equal(t, 2, p.Stats.BlastRadius)

	p.Kill()
	assert.False(t, p.ApplyDrop(table, DropRadius))
	assert.Equal(t, 2, p.Stats.BlastRadius)
}

func TestPlayer_MoveBlockedByNewTile(t *testing.T) {
	p := newTestPlayer(1, TileKey{Col: 1, Row: 1}, DefaultStats())
	wall := TileKey{Col: 2, Row: 1}
	blocked := func(t TileKey) bool { return t == wall }

	// 碰撞盒右边缘 48+13=61，还没进入第 2 列
	assert.True(t, p.Move(2, 0, DefaultTileSize, blocked))
	assert.Equal(t, 50.0, p.X)

	assert.False(t, p.Move(20, 0, DefaultTileSize, blocked))
	assert.Equal(t, 50.0, p.X)

	assert.True(t, p.Move(-20, 0, DefaultTileSize, blocked))
	assert.Equal(t, 30.0, p.X)
}

func TestPlayer_MoveOffBlockedTile(t *testing.T) {
	p := newTestPlayer(1, TileKey{Col: 3, Row: 3}, DefaultStats())
	under := TileKey{Col: 3, Row: 3}
	blocked := func(t TileKey) bool { return t == under }

	assert.True(t, p.Move(10, 0, DefaultTileSize, blocked), "已经压住的格子不阻挡离开")
	assert.True(t, p.Move(30, 0, DefaultTileSize, blocked))
	assert.Equal(t, TileKey{Col: 4, Row: 3}, p.Tile(DefaultTileSize))

	assert.False(t, p.Move(-30, 0, DefaultTileSize, blocked), "离开后重新进入会碰撞")
}

func TestPlayer_CornerCorrection(t *testing.T) {
	// 走廊在第 1 行，上下都是墙
	blocked := func(t TileKey) bool { return t.Row != 1 }
	p := newTestPlayer(1, TileKey{Col: 1, Row: 1}, DefaultStats())
	p.Y += 4

	assert.True(t, p.Move(2, 0, DefaultTileSize, blocked), "已压住的墙不阻挡平移")
	assert.Equal(t, 50.0, p.X)
	assert.Equal(t, 52.0, p.Y)

	assert.True(t, p.Move(12, 0, DefaultTileSize, blocked))
	assert.Equal(t, 50.0, p.X, "先对齐通道中心")
	assert.Equal(t, 48.0, p.Y)

	assert.True(t, p.Move(12, 0, DefaultTileSize, blocked))
	assert.Equal(t, 62.0, p.X)

	far := newTestPlayer(2, TileKey{Col: 1, Row: 1}, DefaultStats())
	far.Y += 10
	assert.False(t, far.Move(14, 0, DefaultTileSize, blocked), "偏移超过容差不修正")
}

func TestPlayer_DeadCannotMove(t *testing.T) {
	p := newTestPlayer(1, TileKey{Col: 1, Row: 1}, DefaultStats())
	p.Kill()
	assert.False(t, p.Move(5, 0, DefaultTileSize, func(TileKey) bool { return false }))
	assert.Equal(t, 48.0, p.X)
}
