package core

import "time"

// DangerField 每个格子最早会被已放置炸弹波及的时间
type DangerField struct {
	earliest map[TileKey]time.Duration
}

// At 格子的最早爆炸时间
func (d DangerField) At(t TileKey) (time.Duration, bool) {
	at, ok := d.earliest[t]
	return at, ok
}

// InDanger 格子是否在某个炸弹的爆炸范围内
func (d DangerField) InDanger(t TileKey) bool {
	_, ok := d.earliest[t]
	return ok
}

// Len 危险格子数
func (d DangerField) Len() int {
	return len(d.earliest)
}

// Each 遍历危险格子，顺序不确定
func (d DangerField) Each(fn func(t TileKey, at time.Duration)) {
	for t, at := range d.earliest {
		fn(t, at)
	}
}

type noDrops struct{}

func (noDrops) Roll() DropKind { return DropNone }

// Danger 按当前砖块和放置者半径预测每个炸弹的爆炸范围；不抽取掉落，不考虑连锁
func (s *Simulation) Danger() DangerField {
	preview := NewBlastResolver(s.blocked, s.crates, noDrops{}, s.bounds)
	field := DangerField{earliest: make(map[TileKey]time.Duration)}
	for _, b := range s.bombs.Bombs() {
		res := preview.Resolve(b.Tile, b.Owner.Stats.BlastRadius)
		for _, bt := range res.Tiles {
			if at, ok := field.earliest[bt.Tile]; !ok || b.FuseDeadline < at {
				field.earliest[bt.Tile] = b.FuseDeadline
			}
		}
	}
	return field
}
