package core

// scriptedRand 按顺序循环返回预设值
type scriptedRand struct {
	values []float64
	i      int
}

func (r *scriptedRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

type sinkCall struct {
	op     string
	name   string
	handle EntityHandle
	kind   EntityKind
	tile   TileKey
}

// recordingSink 记录所有视觉调用，并跟踪存活实体
type recordingSink struct {
	calls []sinkCall
	live  map[EntityHandle]EntityKind
}

func newRecordingSink() *recordingSink {
	return &recordingSink{live: make(map[EntityHandle]EntityKind)}
}

func (s *recordingSink) PlayAnimation(name string, x, y float64) {
	s.calls = append(s.calls, sinkCall{op: "play", name: name})
}

func (s *recordingSink) SpawnEntity(h EntityHandle, kind EntityKind, tile TileKey) {
	s.calls = append(s.calls, sinkCall{op: "spawn", handle: h, kind: kind, tile: tile})
	s.live[h] = kind
}

func (s *recordingSink) DestroyEntity(h EntityHandle) {
	s.calls = append(s.calls, sinkCall{op: "destroy", handle: h})
	delete(s.live, h)
}

func (s *recordingSink) liveOf(kind EntityKind) int {
	n := 0
	for _, k := range s.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (s *recordingSink) animations() []string {
	var names []string
	for _, c := range s.calls {
		if c.op == "play" {
			names = append(names, c.name)
		}
	}
	return names
}

// wallAt 位于格子上的结构墙区域
func wallAt(col, row int) ObstacleRegion {
	return ObstacleRegion{
		X:       float64(col * DefaultTileSize),
		Y:       float64(row * DefaultTileSize),
		Width:   DefaultTileSize,
		Height:  DefaultTileSize,
		NoSpawn: true,
	}
}

// standOn 把玩家放到格子中心；出生点本身不能放炸弹
func standOn(p *Player, tile TileKey) {
	p.X, p.Y = tile.Center(DefaultTileSize)
}
