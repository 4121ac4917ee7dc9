package client

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"bombarena/pkg/core"
)

// Entity 渲染层持有的视觉实体
type Entity struct {
	Handle core.EntityHandle
	Kind   core.EntityKind
	Tile   core.TileKey
	Born   time.Duration
}

type point struct {
	x, y float64
}

// Scene 实现 core.VisualSink：只记录核心发来的视觉事件，绘制时读取
type Scene struct {
	tileSize int
	now      time.Duration

	entities map[core.EntityHandle]*Entity
	// 爆炸格子的分段动画，按格子记录
	blasts map[core.TileKey]string
	// 受伤/死亡动画，按玩家位置记录（死亡后位置不再变化）
	poses map[point]string
}

// NewScene 创建空场景
func NewScene(tileSize int) *Scene {
	return &Scene{
		tileSize: tileSize,
		entities: make(map[core.EntityHandle]*Entity),
		blasts:   make(map[core.TileKey]string),
		poses:    make(map[point]string),
	}
}

// SetNow 记录当前模拟时间，新实体以此为出生时间
func (s *Scene) SetNow(now time.Duration) {
	s.now = now
}

func (s *Scene) SpawnEntity(handle core.EntityHandle, kind core.EntityKind, tile core.TileKey) {
	s.entities[handle] = &Entity{Handle: handle, Kind: kind, Tile: tile, Born: s.now}
}

func (s *Scene) DestroyEntity(handle core.EntityHandle) {
	e, ok := s.entities[handle]
	if !ok {
		return
	}
	delete(s.entities, handle)
	if e.Kind == core.EntityExplosion && !s.hasExplosionAt(e.Tile) {
		delete(s.blasts, e.Tile)
	}
}

func (s *Scene) PlayAnimation(name string, x, y float64) {
	switch {
	case strings.HasPrefix(name, "explosion-"):
		s.blasts[core.TileAt(x, y, s.tileSize)] = name
	case strings.HasPrefix(name, "damage-"), strings.HasPrefix(name, "death-"):
		s.poses[point{x, y}] = name
	}
}

func (s *Scene) hasExplosionAt(tile core.TileKey) bool {
	for _, e := range s.entities {
		if e.Kind == core.EntityExplosion && e.Tile == tile {
			return true
		}
	}
	return false
}

// Entities 指定类型的实体，按句柄排序
func (s *Scene) Entities(kind core.EntityKind) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *Entity) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out
}

// Count 指定类型的实体数
func (s *Scene) Count(kind core.EntityKind) int {
	n := 0
	for _, e := range s.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Entity 按句柄查找
func (s *Scene) Entity(handle core.EntityHandle) (*Entity, bool) {
	e, ok := s.entities[handle]
	return e, ok
}

// BlastAnimation 爆炸格子当前的分段动画名
func (s *Scene) BlastAnimation(tile core.TileKey) (string, bool) {
	name, ok := s.blasts[tile]
	return name, ok
}

// Pose 玩家在该位置的受伤/死亡动画名
func (s *Scene) Pose(x, y float64) (string, bool) {
	name, ok := s.poses[point{x, y}]
	return name, ok
}
