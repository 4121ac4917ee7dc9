package core

import "time"

// BombState 炸弹状态；没有炸弹的格子即为未放置状态
type BombState int

const (
	BombArmed         BombState = iota + 1 // 引信燃烧中，放置者可穿过
	BombOwnerDeparted                      // 放置者已离开，对其恢复碰撞
	BombDetonated                          // 已爆炸（终态）
)

func (s BombState) String() string {
	switch s {
	case BombArmed:
		return "armed"
	case BombOwnerDeparted:
		return "owner-departed"
	case BombDetonated:
		return "detonated"
	}
	return "unarmed"
}

// Bomb 炸弹（纯逻辑结构，不包含渲染）
type Bomb struct {
	Tile         TileKey
	Owner        *Player
	PlacedAt     time.Duration
	FuseDeadline time.Duration

	state  BombState
	handle EntityHandle
}

// State 当前状态
func (b *Bomb) State() BombState {
	return b.state
}

// OwnerPassable 放置者是否仍可穿过
func (b *Bomb) OwnerPassable() bool {
	return b.state == BombArmed
}

// Handle 视觉实体句柄
func (b *Bomb) Handle() EntityHandle {
	return b.handle
}

// BombLifecycle 管理每个格子上的炸弹：放置校验、离开检测、引爆释放
type BombLifecycle struct {
	fuse     time.Duration
	tileSize int
	byTile   map[TileKey]*Bomb
	order    []*Bomb // 放置顺序
}

// NewBombLifecycle 创建炸弹管理器，所有炸弹共用同一引信时长
func NewBombLifecycle(fuse time.Duration, tileSize int) *BombLifecycle {
	return &BombLifecycle{
		fuse:     fuse,
		tileSize: tileSize,
		byTile:   make(map[TileKey]*Bomb),
	}
}

// Place 放置炸弹；格子已有炸弹、放置者已达上限或已死亡时拒绝
func (l *BombLifecycle) Place(tile TileKey, owner *Player, now time.Duration) (*Bomb, bool) {
	if owner == nil || !owner.Alive() {
		return nil, false
	}
	if _, occupied := l.byTile[tile]; occupied {
		return nil, false
	}
	if owner.activeBombs >= owner.Stats.BombCapacity {
		return nil, false
	}

	b := &Bomb{
		Tile:         tile,
		Owner:        owner,
		PlacedAt:     now,
		FuseDeadline: now + l.fuse,
		state:        BombArmed,
	}
	l.byTile[tile] = b
	l.order = append(l.order, b)
	owner.activeBombs++
	return b, true
}

// CheckOwner 比较放置者当前格子与炸弹格子，首次不一致时转为 OwnerDeparted。
// 返回本次是否发生了转换
func (l *BombLifecycle) CheckOwner(b *Bomb) bool {
	if b.state != BombArmed {
		return false
	}
	if b.Owner.Tile(l.tileSize) == b.Tile {
		return false
	}
	b.state = BombOwnerDeparted
	return true
}

// Detonate 引信到期：释放格子占用、归还放置者的炸弹计数。
// 重复调用返回 false
func (l *BombLifecycle) Detonate(b *Bomb) bool {
	if b.state == BombDetonated {
		return false
	}
	b.state = BombDetonated
	if l.byTile[b.Tile] == b {
		delete(l.byTile, b.Tile)
	}
	for i, other := range l.order {
		if other == b {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	if b.Owner.activeBombs > 0 {
		b.Owner.activeBombs--
	}
	return true
}

// At 查询格子上的炸弹
func (l *BombLifecycle) At(tile TileKey) (*Bomb, bool) {
	b, ok := l.byTile[tile]
	return b, ok
}

// Blocks 炸弹是否阻挡该玩家进入格子
func (l *BombLifecycle) Blocks(tile TileKey, p *Player) bool {
	b, ok := l.byTile[tile]
	if !ok {
		return false
	}
	return !(b.Owner == p && b.OwnerPassable())
}

// Bombs 未爆炸的炸弹，按放置顺序
func (l *BombLifecycle) Bombs() []*Bomb {
	return append([]*Bomb(nil), l.order...)
}

// Len 未爆炸的炸弹数量
func (l *BombLifecycle) Len() int {
	return len(l.order)
}
