package core

import (
	"fmt"
	"math"
)

// DropKind 砖块被炸毁后的掉落类型
type DropKind int

const (
	DropNone DropKind = iota
	DropBombCapacity
	DropRadius
	DropSpeed
)

func (k DropKind) String() string {
	switch k {
	case DropNone:
		return "none"
	case DropBombCapacity:
		return "bomb-capacity-up"
	case DropRadius:
		return "radius-up"
	case DropSpeed:
		return "speed-up"
	}
	return "unknown"
}

// DropEntry 掉落表条目
type DropEntry struct {
	Kind        DropKind
	Probability float64
}

// DefaultDrops 默认掉落表
var DefaultDrops = []DropEntry{
	{Kind: DropNone, Probability: 0.55},
	{Kind: DropBombCapacity, Probability: 0.15},
	{Kind: DropRadius, Probability: 0.15},
	{Kind: DropSpeed, Probability: 0.15},
}

// DropTable 按累计概率抽取掉落
type DropTable struct {
	entries   []DropEntry
	speedStep float64
	rng       Random
}

// ValidateDrops 概率不能为负，且总和必须为 1
func ValidateDrops(entries []DropEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: 空表", ErrInvalidDropTable)
	}
	sum := 0.0
	for _, e := range entries {
		if e.Probability < 0 || math.IsNaN(e.Probability) {
			return fmt.Errorf("%w: %s 概率为 %v", ErrInvalidDropTable, e.Kind, e.Probability)
		}
		if e.Kind < DropNone || e.Kind > DropSpeed {
			return fmt.Errorf("%w: 未知类型 %d", ErrInvalidDropTable, e.Kind)
		}
		sum += e.Probability
	}
	if math.Abs(sum-1) > dropProbabilityDelta {
		return fmt.Errorf("%w: 概率总和为 %v", ErrInvalidDropTable, sum)
	}
	return nil
}

// NewDropTable 创建掉落表，配置错误时直接失败
func NewDropTable(entries []DropEntry, speedStep float64, rng Random) (*DropTable, error) {
	if err := ValidateDrops(entries); err != nil {
		return nil, err
	}
	if speedStep <= 0 {
		return nil, fmt.Errorf("%w: 速度增量 %v", ErrInvalidDropTable, speedStep)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: 缺少随机源", ErrInvalidDropTable)
	}
	return &DropTable{
		entries:   append([]DropEntry(nil), entries...),
		speedStep: speedStep,
		rng:       rng,
	}, nil
}

// Roll 抽取一次掉落
func (d *DropTable) Roll() DropKind {
	draw := d.rng.Float64()
	cumulative := 0.0
	for _, e := range d.entries {
		cumulative += e.Probability
		if cumulative > draw {
			return e.Kind
		}
	}
	// 浮点误差导致累计值略小于 1 时落到最后一项
	return d.entries[len(d.entries)-1].Kind
}

// ApplyEffect 将道具效果作用到属性上
func (d *DropTable) ApplyEffect(kind DropKind, stats *Stats) {
	switch kind {
	case DropBombCapacity:
		stats.BombCapacity++
	case DropRadius:
		stats.BlastRadius++
	case DropSpeed:
		stats.Speed += d.speedStep
	}
}
