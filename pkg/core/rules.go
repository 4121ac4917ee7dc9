package core

import (
	"fmt"
	"time"
)

// Rules 一局游戏的全部可调参数
type Rules struct {
	TileSize          int
	Fuse              time.Duration
	OwnerPoll         time.Duration
	ExplosionDuration time.Duration
	DeathPoseDelay    time.Duration
	DeathRemoveDelay  time.Duration
	CrateMax          int
	CrateProbability  float64
	Stats             Stats
	SpeedStep         float64
	Drops             []DropEntry
}

// DefaultRules 默认规则
func DefaultRules() Rules {
	return Rules{
		TileSize:          DefaultTileSize,
		Fuse:              DefaultFuse,
		OwnerPoll:         DefaultOwnerPoll,
		ExplosionDuration: DefaultExplosionDuration,
		DeathPoseDelay:    DefaultDeathPoseDelay,
		DeathRemoveDelay:  DefaultDeathRemoveDelay,
		CrateMax:          DefaultCrateMax,
		CrateProbability:  DefaultCrateChance,
		Stats:             DefaultStats(),
		SpeedStep:         DefaultSpeedStep,
		Drops:             append([]DropEntry(nil), DefaultDrops...),
	}
}

// Validate 配置错误在初始化时直接失败
func (r Rules) Validate() error {
	if r.TileSize <= PlayerHitboxInset {
		return fmt.Errorf("%w: 格子尺寸 %d", ErrInvalidRules, r.TileSize)
	}
	if r.Fuse <= 0 || r.OwnerPoll <= 0 {
		return fmt.Errorf("%w: 引信 %v / 轮询 %v", ErrInvalidRules, r.Fuse, r.OwnerPoll)
	}
	if r.ExplosionDuration < 0 || r.DeathPoseDelay < 0 || r.DeathRemoveDelay < r.DeathPoseDelay {
		return fmt.Errorf("%w: 动画时长", ErrInvalidRules)
	}
	if r.CrateMax < 0 || r.CrateProbability < 0 || r.CrateProbability > 1 {
		return fmt.Errorf("%w: 砖块 max=%d p=%v", ErrInvalidRules, r.CrateMax, r.CrateProbability)
	}
	if err := r.Stats.Validate(); err != nil {
		return err
	}
	if r.SpeedStep <= 0 {
		return fmt.Errorf("%w: 速度增量 %v", ErrInvalidRules, r.SpeedStep)
	}
	return ValidateDrops(r.Drops)
}
