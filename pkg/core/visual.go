package core

import "fmt"

// EntityHandle 视觉实体句柄，由核心分配
type EntityHandle uint64

// EntityKind 视觉实体类型
type EntityKind int

const (
	EntityPlayer EntityKind = iota
	EntityCrate
	EntityBomb
	EntityExplosion
	EntityPickupBomb
	EntityPickupRadius
	EntityPickupSpeed
)

func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityCrate:
		return "crate"
	case EntityBomb:
		return "bomb"
	case EntityExplosion:
		return "explosion"
	case EntityPickupBomb:
		return "pickup-bomb"
	case EntityPickupRadius:
		return "pickup-radius"
	case EntityPickupSpeed:
		return "pickup-speed"
	}
	return fmt.Sprintf("entity(%d)", int(k))
}

// PickupEntity 掉落类型对应的视觉实体
func PickupEntity(kind DropKind) (EntityKind, bool) {
	switch kind {
	case DropBombCapacity:
		return EntityPickupBomb, true
	case DropRadius:
		return EntityPickupRadius, true
	case DropSpeed:
		return EntityPickupSpeed, true
	}
	return 0, false
}

// VisualSink 渲染层接口；核心只通过它发出视觉副作用，从不读取
type VisualSink interface {
	PlayAnimation(name string, x, y float64)
	SpawnEntity(handle EntityHandle, kind EntityKind, tile TileKey)
	DestroyEntity(handle EntityHandle)
}

// NopSink 丢弃所有视觉事件（服务端/测试）
type NopSink struct{}

func (NopSink) PlayAnimation(string, float64, float64) {}
func (NopSink) SpawnEntity(EntityHandle, EntityKind, TileKey) {}
func (NopSink) DestroyEntity(EntityHandle) {}

// PlayerAnimation 玩家动画名，如 walk-front、death-left
func PlayerAnimation(action string, facing Direction) string {
	return action + "-" + facing.Facing()
}
