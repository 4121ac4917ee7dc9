package core

// BlockedTileIndex 关卡加载时构建的静态阻挡索引，之后只读
type BlockedTileIndex struct {
	spawnBlocked TileSet // 不能放置砖块/炸弹的格子
	blastBlocked TileSet // 阻挡爆炸的结构墙
}

// NewBlockedTileIndex 从障碍区域构建索引；无效区域按“不阻挡”处理
func NewBlockedTileIndex(regions []ObstacleRegion, tileSize int) *BlockedTileIndex {
	idx := &BlockedTileIndex{
		spawnBlocked: NewTileSet(),
		blastBlocked: NewTileSet(),
	}
	for _, r := range regions {
		if !r.NoSpawn {
			continue
		}
		tile, ok := r.Tile(tileSize)
		if !ok {
			continue
		}
		idx.spawnBlocked.Put(tile)
		if !r.PlayerSpawnExclusive {
			idx.blastBlocked.Put(tile)
		}
	}
	return idx
}

// IsSpawnBlocked 是否禁止生成
func (b *BlockedTileIndex) IsSpawnBlocked(t TileKey) bool {
	return b != nil && b.spawnBlocked.Has(t)
}

// IsBlastBlocked 是否阻挡爆炸
func (b *BlockedTileIndex) IsBlastBlocked(t TileKey) bool {
	return b != nil && b.blastBlocked.Has(t)
}

// Walls 结构墙数量
func (b *BlockedTileIndex) Walls() int {
	if b == nil {
		return 0
	}
	return b.blastBlocked.Size()
}
