package core

import "time"

// 地图默认配置（与原始画布 544x416 对齐）
const (
	DefaultTileSize = 32
	DefaultCols     = 17
	DefaultRows     = 13
)

// 玩家配置
const (
	PlayerHitboxInset    = 6   // 碰撞盒相对格子的内缩（像素）
	CornerTolerance      = 8   // 拐角修正的最大偏移（像素）
	DefaultPlayerSpeed   = 80  // 像素/秒
	DefaultSpeedStep     = 20  // 速度道具的增量
	DefaultBombCapacity  = 1   // 最大同时炸弹数
	DefaultBlastRadius   = 1   // 爆炸范围（格子数）
	DefaultCrateMax      = 60  // 初始砖块上限
	DefaultCrateChance   = 0.5 // 每个空格生成砖块的概率
	dropProbabilityDelta = 1e-9
)

// 时间配置
const (
	DefaultFuse              = 2 * time.Second
	DefaultOwnerPoll         = 50 * time.Millisecond
	DefaultExplosionDuration = 500 * time.Millisecond
	DefaultDeathPoseDelay    = 400 * time.Millisecond
	DefaultDeathRemoveDelay  = 1500 * time.Millisecond
)
