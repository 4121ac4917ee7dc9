package core

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Pickup 地面上的道具
type Pickup struct {
	Tile   TileKey
	Kind   DropKind
	handle EntityHandle
}

// Simulation 单线程、按帧推进的对局状态（纯逻辑，不包含渲染）
type Simulation struct {
	rules    Rules
	geometry Geometry
	bounds   Bounds
	tileSize int

	blocked  *BlockedTileIndex
	crates   *CrateRegistry
	drops    *DropTable
	resolver *BlastResolver
	bombs    *BombLifecycle
	sched    *Scheduler

	players []*Player
	byID    map[int]*Player
	pickups map[TileKey]*Pickup

	now        time.Duration
	nextHandle EntityHandle
	observers  []func(*BlastResult)

	sink VisualSink
	log  zerolog.Logger
}

// NewSimulation 构建静态索引并生成初始砖块
func NewSimulation(rules Rules, geometry Geometry, rng Random, sink VisualSink, logger zerolog.Logger) (*Simulation, error) {
	if geometry.TileSize == 0 {
		geometry.TileSize = rules.TileSize
	}
	rules.TileSize = geometry.TileSize
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: 缺少随机源", ErrInvalidRules)
	}
	drops, err := NewDropTable(rules.Drops, rules.SpeedStep, rng)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	s := &Simulation{
		rules:    rules,
		geometry: geometry,
		bounds:   geometry.Bounds(),
		tileSize: geometry.TileSize,
		blocked:  NewBlockedTileIndex(geometry.Obstacles, geometry.TileSize),
		crates:   NewCrateRegistry(),
		drops:    drops,
		bombs:    NewBombLifecycle(rules.Fuse, geometry.TileSize),
		sched:    NewScheduler(),
		byID:     make(map[int]*Player),
		pickups:  make(map[TileKey]*Pickup),
		sink:     sink,
		log:      logger,
	}
	s.resolver = NewBlastResolver(s.blocked, s.crates, s.drops, s.bounds)

	s.crates.Populate(s.bounds, s.blocked, rules.CrateMax, rules.CrateProbability, rng)
	for _, tile := range s.Crates() {
		h := s.allocHandle()
		s.crates.Attach(tile, h)
		s.sink.SpawnEntity(h, EntityCrate, tile)
	}

	s.log.Debug().
		Int("cols", s.bounds.Cols).
		Int("rows", s.bounds.Rows).
		Int("walls", s.blocked.Walls()).
		Int("crates", s.crates.Len()).
		Msg("对局已创建")
	return s, nil
}

func (s *Simulation) allocHandle() EntityHandle {
	s.nextHandle++
	return s.nextHandle
}

// AddPlayer 把玩家放到下一个空闲出生点
func (s *Simulation) AddPlayer(id int) (*Player, error) {
	if _, exists := s.byID[id]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicatePlayer, id)
	}
	slot := len(s.players)
	if slot >= len(s.geometry.Spawns) {
		return nil, fmt.Errorf("%w: 第 %d 个玩家", ErrNoSpawn, slot+1)
	}

	spawn := s.geometry.Spawns[slot]
	x, y := spawn.Center(s.tileSize)
	p := NewPlayer(id, x, y, s.rules.Stats)
	p.Character = CharacterForSlot(slot)
	p.handle = s.allocHandle()

	s.players = append(s.players, p)
	s.byID[id] = p
	s.sink.SpawnEntity(p.handle, EntityPlayer, spawn)
	s.playPlayer(p, "idle")

	s.log.Debug().Int("player", id).Stringer("tile", spawn).Msg("玩家加入")
	return p, nil
}

// Step 推进一帧：先按当前时间处理输入，再推进时钟并执行到期事件
func (s *Simulation) Step(dt time.Duration, intents map[int]Intent) {
	if dt < 0 {
		dt = 0
	}

	for _, p := range s.players {
		if !p.Alive() {
			continue
		}
		intent := intents[p.ID]
		s.movePlayer(p, intent, dt)
		s.collectPickup(p)
		if intent.PlaceBomb {
			s.placeBomb(p)
		}
	}

	s.now += dt
	s.drain()
}

func (s *Simulation) drain() {
	for {
		ev, ok := s.sched.PopDue(s.now)
		if !ok {
			return
		}
		s.handle(ev)
	}
}

func (s *Simulation) handle(ev Event) {
	switch ev.Kind {
	case EventFuseExpiry:
		s.detonate(ev.Bomb, ev.At)
	case EventOwnerPoll:
		if ev.Bomb.State() != BombArmed {
			return
		}
		if s.bombs.CheckOwner(ev.Bomb) {
			s.log.Debug().Int("player", ev.Bomb.Owner.ID).Stringer("tile", ev.Bomb.Tile).Msg("放置者已离开炸弹")
			return
		}
		ev.At += s.rules.OwnerPoll
		s.sched.Schedule(ev)
	case EventVisualStep:
		s.visualStep(ev)
	}
}

func (s *Simulation) movePlayer(p *Player, intent Intent, dt time.Duration) {
	dir, moving := intent.Direction()
	if !moving {
		p.Moving = false
		s.playPlayer(p, "idle")
		return
	}

	p.Facing = dir
	p.Moving = true
	vx, vy := intent.Velocity(p.Stats.Speed)
	secs := dt.Seconds()
	p.Move(vx*secs, vy*secs, s.tileSize, s.blockerFor(p))
	s.playPlayer(p, "walk")
}

// blockerFor 玩家视角下的阻挡格子
func (s *Simulation) blockerFor(p *Player) TileBlocker {
	return func(t TileKey) bool {
		return !s.bounds.Contains(t) ||
			s.blocked.IsBlastBlocked(t) ||
			s.crates.Contains(t) ||
			s.bombs.Blocks(t, p)
	}
}

// playPlayer 仅在动画变化时通知渲染层
func (s *Simulation) playPlayer(p *Player, action string) {
	name := PlayerAnimation(action, p.Facing)
	if p.animation == name {
		return
	}
	p.animation = name
	s.sink.PlayAnimation(name, p.X, p.Y)
}

func (s *Simulation) collectPickup(p *Player) {
	tile := p.Tile(s.tileSize)
	pk, ok := s.pickups[tile]
	if !ok {
		return
	}
	if !p.ApplyDrop(s.drops, pk.Kind) {
		return
	}
	delete(s.pickups, tile)
	s.sink.DestroyEntity(pk.handle)
	s.log.Debug().Int("player", p.ID).Stringer("drop", pk.Kind).Msg("拾取道具")
}

func (s *Simulation) placeBomb(p *Player) {
	tile := p.Tile(s.tileSize)
	if s.crates.Contains(tile) || s.blocked.IsSpawnBlocked(tile) {
		s.log.Debug().Int("player", p.ID).Stringer("tile", tile).Msg("该格子不能放置炸弹")
		return
	}
	b, ok := s.bombs.Place(tile, p, s.now)
	if !ok {
		s.log.Debug().Int("player", p.ID).Stringer("tile", tile).Msg("放置炸弹被拒绝")
		return
	}

	b.handle = s.allocHandle()
	s.sink.SpawnEntity(b.handle, EntityBomb, tile)
	s.sched.Schedule(Event{At: b.FuseDeadline, Kind: EventFuseExpiry, Bomb: b})
	s.sched.Schedule(Event{At: s.now + s.rules.OwnerPoll, Kind: EventOwnerPoll, Bomb: b})
	s.log.Debug().Int("player", p.ID).Stringer("tile", tile).Dur("fuse", s.rules.Fuse).Msg("放置炸弹")
}

// detonate 引爆炸弹；连锁引爆不在此处理
func (s *Simulation) detonate(b *Bomb, at time.Duration) {
	if !s.bombs.Detonate(b) {
		return
	}
	s.sink.DestroyEntity(b.handle)

	res := s.resolver.Resolve(b.Tile, b.Owner.Stats.BlastRadius)
	res.Owner = b.Owner.ID

	handles := make([]EntityHandle, 0, len(res.Tiles))
	for _, bt := range res.Tiles {
		h := s.allocHandle()
		handles = append(handles, h)
		s.sink.SpawnEntity(h, EntityExplosion, bt.Tile)
		x, y := bt.Tile.Center(s.tileSize)
		s.sink.PlayAnimation(bt.Animation(), x, y)
	}
	s.sched.Schedule(Event{
		At:      at + s.rules.ExplosionDuration,
		Kind:    EventVisualStep,
		Step:    StepExplosionCleanup,
		Handles: handles,
	})

	for _, d := range res.Destroyed {
		s.destroyCrate(d)
	}

	for _, p := range s.players {
		if p.Alive() && res.Covers(p.Tile(s.tileSize)) {
			res.PlayerKilled = true
			s.kill(p, at)
		}
	}

	s.log.Debug().
		Int("player", res.Owner).
		Stringer("tile", res.Origin).
		Int("radius", res.Radius).
		Int("tiles", len(res.Tiles)).
		Int("crates", len(res.Destroyed)).
		Bool("killed", res.PlayerKilled).
		Msg("炸弹爆炸")

	for _, fn := range s.observers {
		fn(res)
	}
}

func (s *Simulation) destroyCrate(d CrateDrop) {
	if !s.crates.Remove(d.Tile) {
		return
	}
	if h, ok := s.crates.Detach(d.Tile); ok {
		s.sink.DestroyEntity(h)
	}
	kind, ok := PickupEntity(d.Drop)
	if !ok {
		return
	}
	if _, exists := s.pickups[d.Tile]; exists {
		return
	}
	pk := &Pickup{Tile: d.Tile, Kind: d.Drop, handle: s.allocHandle()}
	s.pickups[d.Tile] = pk
	s.sink.SpawnEntity(pk.handle, kind, d.Tile)
	s.log.Debug().Stringer("tile", d.Tile).Stringer("drop", d.Drop).Msg("砖块掉落道具")
}

func (s *Simulation) kill(p *Player, at time.Duration) {
	if !p.Kill() {
		return
	}
	s.playPlayer(p, "damage")
	s.sched.Schedule(Event{At: at + s.rules.DeathPoseDelay, Kind: EventVisualStep, Step: StepDeathPose, Player: p})
	s.sched.Schedule(Event{At: at + s.rules.DeathRemoveDelay, Kind: EventVisualStep, Step: StepDeathRemoval, Player: p})
	s.log.Debug().Int("player", p.ID).Msg("玩家死亡")
}

func (s *Simulation) visualStep(ev Event) {
	switch ev.Step {
	case StepDeathPose:
		s.playPlayer(ev.Player, "death")
	case StepDeathRemoval:
		ev.Player.removed = true
		s.sink.DestroyEntity(ev.Player.handle)
	case StepExplosionCleanup:
		for _, h := range ev.Handles {
			s.sink.DestroyEntity(h)
		}
	}
}

// OnBlast 注册爆炸观察者，按注册顺序调用
func (s *Simulation) OnBlast(fn func(*BlastResult)) {
	s.observers = append(s.observers, fn)
}

// Now 模拟时钟
func (s *Simulation) Now() time.Duration {
	return s.now
}

// Rules 当前规则
func (s *Simulation) Rules() Rules {
	return s.rules
}

// Geometry 关卡几何
func (s *Simulation) Geometry() Geometry {
	return s.geometry
}

// Blocked 静态阻挡索引
func (s *Simulation) Blocked() *BlockedTileIndex {
	return s.blocked
}

// HasCrate 格子上是否有砖块
func (s *Simulation) HasCrate(t TileKey) bool {
	return s.crates.Contains(t)
}

// Crates 所有砖块，按行优先排序
func (s *Simulation) Crates() []TileKey {
	tiles := make([]TileKey, 0, s.crates.Len())
	s.crates.Each(func(t TileKey) {
		tiles = append(tiles, t)
	})
	sortTiles(tiles)
	return tiles
}

// Bombs 未爆炸的炸弹，按放置顺序
func (s *Simulation) Bombs() []*Bomb {
	return s.bombs.Bombs()
}

// BombAt 查询格子上的炸弹
func (s *Simulation) BombAt(t TileKey) (*Bomb, bool) {
	return s.bombs.At(t)
}

// Players 所有玩家，按加入顺序
func (s *Simulation) Players() []*Player {
	return append([]*Player(nil), s.players...)
}

// Player 按 ID 查询玩家
func (s *Simulation) Player(id int) (*Player, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Pickups 地面上的道具，按行优先排序
func (s *Simulation) Pickups() []Pickup {
	out := make([]Pickup, 0, len(s.pickups))
	for _, pk := range s.pickups {
		out = append(out, *pk)
	}
	slices.SortFunc(out, func(a, b Pickup) int {
		return compareTiles(a.Tile, b.Tile)
	})
	return out
}

// Pending 尚未执行的延迟事件数
func (s *Simulation) Pending() int {
	return s.sched.Len()
}

// AliveCount 存活玩家数
func (s *Simulation) AliveCount() int {
	alive := 0
	for _, p := range s.players {
		if p.Alive() {
			alive++
		}
	}
	return alive
}

// IsGameOver 至少两名玩家参与且只剩一个或零个存活
func (s *Simulation) IsGameOver() bool {
	return len(s.players) >= 2 && s.AliveCount() <= 1
}

func compareTiles(a, b TileKey) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

func sortTiles(tiles []TileKey) {
	slices.SortFunc(tiles, compareTiles)
}
