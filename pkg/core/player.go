package core

import (
	"fmt"
	"math"
)

// Stats 玩家属性，只会被道具提升
type Stats struct {
	BombCapacity int     // 最大同时炸弹数
	BlastRadius  int     // 爆炸范围（格子数）
	Speed        float64 // 像素/秒
}

// DefaultStats 默认属性
func DefaultStats() Stats {
	return Stats{
		BombCapacity: DefaultBombCapacity,
		BlastRadius:  DefaultBlastRadius,
		Speed:        DefaultPlayerSpeed,
	}
}

// NewStats 创建属性，容量和范围至少为 1，速度必须为正
func NewStats(capacity, radius int, speed float64) (Stats, error) {
	s := Stats{BombCapacity: capacity, BlastRadius: radius, Speed: speed}
	if err := s.Validate(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Validate 校验属性
func (s Stats) Validate() error {
	if s.BombCapacity < 1 {
		return fmt.Errorf("%w: 炸弹容量 %d", ErrInvalidStats, s.BombCapacity)
	}
	if s.BlastRadius < 1 {
		return fmt.Errorf("%w: 爆炸范围 %d", ErrInvalidStats, s.BlastRadius)
	}
	if !(s.Speed > 0) || math.IsInf(s.Speed, 0) {
		return fmt.Errorf("%w: 速度 %v", ErrInvalidStats, s.Speed)
	}
	return nil
}

// Player 玩家（纯逻辑，不包含渲染）
type Player struct {
	ID     int
	X, Y   float64   // 碰撞盒中心（世界坐标）
	Facing Direction // 最后朝向，静止时保留
	Moving bool
	Stats  Stats

	Character CharacterType

	dead        bool
	removed     bool
	activeBombs int
	animation   string
	handle      EntityHandle
}

// NewPlayer 创建新玩家，初始朝向为正面
func NewPlayer(id int, x, y float64, stats Stats) *Player {
	return &Player{
		ID:     id,
		X:      x,
		Y:      y,
		Facing: DirDown,
		Stats:  stats,
	}
}

// Alive 是否存活
func (p *Player) Alive() bool {
	return !p.dead
}

// Removed 死亡序列结束后从场景移除
func (p *Player) Removed() bool {
	return p.removed
}

// ActiveBombs 当前未爆炸的炸弹数
func (p *Player) ActiveBombs() int {
	return p.activeBombs
}

// Handle 视觉实体句柄
func (p *Player) Handle() EntityHandle {
	return p.handle
}

// Tile 玩家中心所在格子
func (p *Player) Tile(tileSize int) TileKey {
	return TileAt(p.X, p.Y, tileSize)
}

// Kill 存活 -> 死亡，只在第一次调用时返回 true
func (p *Player) Kill() bool {
	if p.dead {
		return false
	}
	p.dead = true
	p.Moving = false
	return true
}

// ApplyDrop 拾取道具；死亡后无效
func (p *Player) ApplyDrop(table *DropTable, kind DropKind) bool {
	if p.dead || table == nil || kind == DropNone {
		return false
	}
	table.ApplyEffect(kind, &p.Stats)
	return true
}

// TileBlocker 判断格子是否阻挡当前玩家
type TileBlocker func(t TileKey) bool

// Move 轴对齐移动（返回是否成功移动）。
// 已经压住的阻挡格子只能离开，不能压得更深；
// 因此站在刚放下的炸弹上能走开，走开后也不能退回去
func (p *Player) Move(dx, dy float64, tileSize int, blocked TileBlocker) bool {
	if p.dead || (dx == 0 && dy == 0) {
		return false
	}

	newX, newY := p.X+dx, p.Y+dy
	if !p.canOccupy(newX, newY, tileSize, blocked) {
		x, y, ok := p.tryCornerCorrection(dx, dy, tileSize, blocked)
		if !ok {
			return false
		}
		newX, newY = x, y
	}

	p.X, p.Y = newX, newY
	return true
}

func (p *Player) canOccupy(x, y float64, tileSize int, blocked TileBlocker) bool {
	for _, t := range hitboxTiles(x, y, tileSize) {
		if !blocked(t) {
			continue
		}
		if hitboxOverlap(x, y, t, tileSize) > hitboxOverlap(p.X, p.Y, t, tileSize) {
			return false
		}
	}
	return true
}

// tryCornerCorrection 贴近拐角时把玩家推向通道中心
func (p *Player) tryCornerCorrection(dx, dy float64, tileSize int, blocked TileBlocker) (float64, float64, bool) {
	if dx != 0 && dy != 0 {
		return 0, 0, false
	}
	cx, cy := p.Tile(tileSize).Center(tileSize)

	if dx != 0 {
		offset := cy - p.Y
		if offset == 0 || math.Abs(offset) > CornerTolerance {
			return 0, 0, false
		}
		step := math.Copysign(math.Min(math.Abs(offset), math.Abs(dx)), offset)
		if p.canOccupy(p.X, p.Y+step, tileSize, blocked) {
			return p.X, p.Y + step, true
		}
		return 0, 0, false
	}

	offset := cx - p.X
	if offset == 0 || math.Abs(offset) > CornerTolerance {
		return 0, 0, false
	}
	step := math.Copysign(math.Min(math.Abs(offset), math.Abs(dy)), offset)
	if p.canOccupy(p.X+step, p.Y, tileSize, blocked) {
		return p.X + step, p.Y, true
	}
	return 0, 0, false
}

// hitboxTiles 碰撞盒覆盖的格子（半开区间）
func hitboxTiles(x, y float64, tileSize int) []TileKey {
	half := float64(tileSize-PlayerHitboxInset) / 2
	ts := float64(tileSize)
	minCol := int(math.Floor((x - half) / ts))
	maxCol := int(math.Ceil((x+half)/ts)) - 1
	minRow := int(math.Floor((y - half) / ts))
	maxRow := int(math.Ceil((y+half)/ts)) - 1

	tiles := make([]TileKey, 0, 4)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			tiles = append(tiles, TileKey{Col: col, Row: row})
		}
	}
	return tiles
}

// hitboxOverlap 碰撞盒与格子的重叠面积
func hitboxOverlap(x, y float64, t TileKey, tileSize int) float64 {
	half := float64(tileSize-PlayerHitboxInset) / 2
	ts := float64(tileSize)
	w := math.Min(x+half, float64(t.Col+1)*ts) - math.Max(x-half, float64(t.Col)*ts)
	h := math.Min(y+half, float64(t.Row+1)*ts) - math.Max(y-half, float64(t.Row)*ts)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
