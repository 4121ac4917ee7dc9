package core

// Segment 爆炸格子的视觉分类
type Segment int

const (
	SegmentOrigin Segment = iota // 中心
	SegmentMid                   // 中段（带朝向）
	SegmentEnd                   // 方向末端（仅因范围耗尽而结束）
)

func (s Segment) String() string {
	switch s {
	case SegmentOrigin:
		return "origin"
	case SegmentMid:
		return "mid"
	case SegmentEnd:
		return "end"
	}
	return "unknown"
}

// BlastTile 爆炸影响的格子
type BlastTile struct {
	Tile    TileKey
	Segment Segment
	Dir     Direction // 中心格无意义
}

// Animation 该格子要播放的爆炸动画
func (t BlastTile) Animation() string {
	switch t.Segment {
	case SegmentOrigin:
		return "explosion-origin"
	case SegmentEnd:
		return "explosion-end-" + t.Dir.String()
	}
	if t.Dir.Horizontal() {
		return "explosion-mid-horizontal"
	}
	return "explosion-mid-vertical"
}

// CrateDrop 被炸毁的砖块及其掉落
type CrateDrop struct {
	Tile TileKey
	Drop DropKind
}

// BlastResult 一次爆炸的结果（临时数据，不持久化）
type BlastResult struct {
	Origin       TileKey
	Radius       int
	Owner        int
	Tiles        []BlastTile // 中心在前，随后按上、下、左、右
	Affected     TileSet
	Destroyed    []CrateDrop
	PlayerKilled bool

	index map[TileKey]int // 格子 -> Tiles 下标
}

// Covers 格子是否在爆炸范围内
func (r *BlastResult) Covers(t TileKey) bool {
	return r.Affected.Has(t)
}

// TileAt 查询格子的分类
func (r *BlastResult) TileAt(t TileKey) (BlastTile, bool) {
	i, ok := r.index[t]
	if !ok {
		return BlastTile{}, false
	}
	return r.Tiles[i], true
}

func (r *BlastResult) add(bt BlastTile) int {
	i := len(r.Tiles)
	r.Tiles = append(r.Tiles, bt)
	r.Affected.Put(bt.Tile)
	r.index[bt.Tile] = i
	return i
}

// CrateLookup 爆炸只读取砖块是否存在
type CrateLookup interface {
	Contains(t TileKey) bool
}

// DropRoller 掉落抽取
type DropRoller interface {
	Roll() DropKind
}

// BlastResolver 爆炸传播计算，不修改砖块表
type BlastResolver struct {
	blocked *BlockedTileIndex
	crates  CrateLookup
	drops   DropRoller
	bounds  Bounds
}

// NewBlastResolver 创建爆炸计算器；drops 为 nil 时不产生掉落
func NewBlastResolver(blocked *BlockedTileIndex, crates CrateLookup, drops DropRoller, bounds Bounds) *BlastResolver {
	return &BlastResolver{
		blocked: blocked,
		crates:  crates,
		drops:   drops,
		bounds:  bounds,
	}
}

// Resolve 从中心向四个方向逐格扩散：
// 墙壁立即停止且不包含该格；砖块包含该格、标记炸毁并停止；
// 其余格子为中段，若因范围耗尽而结束则最后一格为末端
func (r *BlastResolver) Resolve(origin TileKey, radius int) *BlastResult {
	if radius < 0 {
		radius = 0
	}
	res := &BlastResult{
		Origin:   origin,
		Radius:   radius,
		Affected: NewTileSet(),
		index:    make(map[TileKey]int, 4*radius+1),
	}
	res.add(BlastTile{Tile: origin, Segment: SegmentOrigin})

	for _, dir := range Directions {
		open := -1
		for step := 1; step <= radius; step++ {
			tile := origin.Step(dir, step)

			if !r.bounds.Contains(tile) {
				if open >= 0 {
					res.Tiles[open].Segment = SegmentEnd
				}
				break
			}

			if r.blocked.IsBlastBlocked(tile) {
				// 墙壁阻挡爆炸
				break
			}

			i := res.add(BlastTile{Tile: tile, Segment: SegmentMid, Dir: dir})

			if r.crates != nil && r.crates.Contains(tile) {
				// 炸毁砖块后停止该方向
				res.Destroyed = append(res.Destroyed, CrateDrop{Tile: tile, Drop: r.roll()})
				break
			}

			open = i
			if step == radius {
				res.Tiles[open].Segment = SegmentEnd
			}
		}
	}

	return res
}

func (r *BlastResolver) roll() DropKind {
	if r.drops == nil {
		return DropNone
	}
	return r.drops.Roll()
}
