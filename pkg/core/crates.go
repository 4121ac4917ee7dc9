package core

// Random 随机数源，*rand.Rand 满足该接口
type Random interface {
	Float64() float64
}

// CrateRegistry 可破坏砖块的权威记录（视觉实体只是副作用）
type CrateRegistry struct {
	tiles   TileSet
	handles map[TileKey]EntityHandle
}

// NewCrateRegistry 创建砖块表，可带初始砖块
func NewCrateRegistry(tiles ...TileKey) *CrateRegistry {
	return &CrateRegistry{
		tiles:   NewTileSet(tiles...),
		handles: make(map[TileKey]EntityHandle),
	}
}

// Populate 按行优先顺序遍历网格，跳过禁止生成的格子，
// 每个空格以 probability 独立接受，达到 maxCount 后立即停止
func (c *CrateRegistry) Populate(bounds Bounds, blocked *BlockedTileIndex, maxCount int, probability float64, rng Random) TileSet {
	accepted := NewTileSet()
	if maxCount <= 0 || rng == nil {
		return accepted
	}
	for row := 0; row < bounds.Rows; row++ {
		for col := 0; col < bounds.Cols; col++ {
			tile := TileKey{Col: col, Row: row}
			if blocked.IsSpawnBlocked(tile) || c.tiles.Has(tile) {
				continue
			}
			if rng.Float64() >= probability {
				continue
			}
			accepted.Put(tile)
			c.tiles.Put(tile)
			if accepted.Size() >= maxCount {
				return accepted
			}
		}
	}
	return accepted
}

// Contains 格子上是否有砖块
func (c *CrateRegistry) Contains(t TileKey) bool {
	return c.tiles.Has(t)
}

// Remove 移除砖块，返回是否真的移除了（重复移除为空操作）
func (c *CrateRegistry) Remove(t TileKey) bool {
	if !c.tiles.Has(t) {
		return false
	}
	c.tiles.Remove(t)
	return true
}

// Attach 记录砖块对应的视觉实体
func (c *CrateRegistry) Attach(t TileKey, h EntityHandle) {
	c.handles[t] = h
}

// Detach 取出并清除砖块对应的视觉实体
func (c *CrateRegistry) Detach(t TileKey) (EntityHandle, bool) {
	h, ok := c.handles[t]
	delete(c.handles, t)
	return h, ok
}

// Len 当前砖块数量
func (c *CrateRegistry) Len() int {
	return c.tiles.Size()
}

// Each 遍历所有砖块（无序）
func (c *CrateRegistry) Each(fn func(t TileKey)) {
	c.tiles.Each(fn)
}
