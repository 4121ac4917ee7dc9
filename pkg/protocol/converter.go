package protocol

import (
	"bombarena/pkg/core"
)

// ========== Direction 转换 ==========

// 线上方向索引：UP=1, DOWN=2, LEFT=3, RIGHT=4，0 表示未指定
// core 方向索引：DirDown=0, DirUp=1, DirLeft=2, DirRight=3

// DirectionToWire 将 core.Direction 转换为线上编码
func DirectionToWire(dir core.Direction) int32 {
	switch dir {
	case core.DirUp:
		return 1
	case core.DirDown:
		return 2
	case core.DirLeft:
		return 3
	case core.DirRight:
		return 4
	}
	return 0
}

// DirectionFromWire 将线上编码转换为 core.Direction
func DirectionFromWire(v int32) core.Direction {
	switch v {
	case 1:
		return core.DirUp
	case 3:
		return core.DirLeft
	case 4:
		return core.DirRight
	}
	return core.DirDown // 默认向下
}

// ========== CharacterType 转换 ==========

// core 从 0 开始，线上从 1 开始，0 表示未指定

// CharacterToWire 将 core.CharacterType 转换为线上编码
func CharacterToWire(c core.CharacterType) int32 {
	return int32(c) + 1
}

// CharacterFromWire 将线上编码转换为 core.CharacterType，未指定时为白色
func CharacterFromWire(v int32) core.CharacterType {
	if v <= 0 {
		return core.CharacterWhite
	}
	return core.CharacterType(v - 1)
}

// ========== Player 转换 ==========

// PlayerSnapshotFrom 将 core.Player 转换为只读快照
func PlayerSnapshotFrom(p *core.Player) *PlayerSnapshot {
	if p == nil {
		return nil
	}
	return &PlayerSnapshot{
		ID:           int32(p.ID),
		X:            p.X,
		Y:            p.Y,
		Facing:       p.Facing,
		Moving:       p.Moving,
		Alive:        p.Alive(),
		Character:    p.Character,
		BombCapacity: int32(p.Stats.BombCapacity),
		BlastRadius:  int32(p.Stats.BlastRadius),
		Speed:        p.Stats.Speed,
		ActiveBombs:  int32(p.ActiveBombs()),
	}
}

// PlayerSnapshotsFrom 批量转换 Player 列表
func PlayerSnapshotsFrom(players []*core.Player) []*PlayerSnapshot {
	if players == nil {
		return nil
	}
	out := make([]*PlayerSnapshot, 0, len(players))
	for _, p := range players {
		if p != nil {
			out = append(out, PlayerSnapshotFrom(p))
		}
	}
	return out
}

// ========== Blast 转换 ==========

// BlastSnapshotFrom 将 core.BlastResult 转换为只读快照
func BlastSnapshotFrom(r *core.BlastResult) *BlastSnapshot {
	if r == nil {
		return nil
	}
	snap := &BlastSnapshot{
		Origin:       TileFromCore(r.Origin),
		Radius:       int32(r.Radius),
		Owner:        int32(r.Owner),
		PlayerKilled: r.PlayerKilled,
		Tiles:        make([]BlastTileSnapshot, len(r.Tiles)),
		Destroyed:    make([]CrateSnapshot, len(r.Destroyed)),
	}
	for i, bt := range r.Tiles {
		snap.Tiles[i] = BlastTileSnapshot{
			Tile:    TileFromCore(bt.Tile),
			Segment: bt.Segment,
			Dir:     bt.Dir,
		}
	}
	for i, d := range r.Destroyed {
		snap.Destroyed[i] = CrateSnapshot{Tile: TileFromCore(d.Tile), Drop: d.Drop}
	}
	return snap
}

// TileFromCore 格子坐标转换
func TileFromCore(t core.TileKey) Tile {
	return Tile{Col: int32(t.Col), Row: int32(t.Row)}
}

// Core 转回 core.TileKey
func (t Tile) Core() core.TileKey {
	return core.TileKey{Col: int(t.Col), Row: int(t.Row)}
}
