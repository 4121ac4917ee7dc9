package client

import (
	"fmt"
	"image/color"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	FPS       = 60
	hudHeight = 20
)

var hudFont = text.NewGoXFace(basicfont.Face7x13)

// Game 本地单机查看器（Ebiten 游戏循环）
type Game struct {
	sim       *core.Simulation
	scene     *Scene
	localID   int
	scheme    ControlScheme
	animators map[int]*playerAnimator
	gameOver  bool
}

// NewGame scene 必须是创建 sim 时传入的 VisualSink
func NewGame(sim *core.Simulation, scene *Scene, localID int, scheme ControlScheme) *Game {
	return &Game{
		sim:       sim,
		scene:     scene,
		localID:   localID,
		scheme:    scheme,
		animators: make(map[int]*playerAnimator),
	}
}

// ScreenSize 窗口尺寸：地图加底部状态栏
func (g *Game) ScreenSize() (int, int) {
	geo := g.sim.Geometry()
	return geo.Cols * geo.TileSize, geo.Rows*geo.TileSize + hudHeight
}

// Update 每帧推进一次模拟，帧长固定为 1/TPS
func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())
	g.tick(dt, map[int]core.Intent{g.localID: ReadIntent(g.scheme)})
	return nil
}

// tick 结束后不再接受输入，但继续推进直到剩余的延迟事件执行完
func (g *Game) tick(dt time.Duration, intents map[int]core.Intent) {
	if g.gameOver {
		if g.sim.Pending() == 0 {
			return
		}
		intents = nil
	}

	g.scene.SetNow(g.sim.Now())
	g.sim.Step(dt, intents)

	for _, p := range g.sim.Players() {
		a, ok := g.animators[p.ID]
		if !ok {
			a = &playerAnimator{}
			g.animators[p.ID] = a
		}
		a.update(p.Alive() && p.Moving, dt)
	}

	if !g.gameOver && g.matchOver() {
		g.gameOver = true
	}
}

// matchOver 对局结束，或本地玩家已被移除
func (g *Game) matchOver() bool {
	if g.sim.IsGameOver() {
		return true
	}
	local, ok := g.sim.Player(g.localID)
	return ok && local.Removed()
}

// Draw 绘制游戏画面
func (g *Game) Draw(screen *ebiten.Image) {
	ts := g.sim.Geometry().TileSize
	now := g.sim.Now()

	drawTiles(screen, g.sim)

	fuse := g.sim.Rules().Fuse
	g.sim.Danger().Each(func(tile core.TileKey, at time.Duration) {
		drawDanger(screen, tile, at-now, fuse, ts)
	})

	for _, e := range g.scene.Entities(core.EntityCrate) {
		drawCrate(screen, e.Tile, ts)
	}
	for _, kind := range []core.EntityKind{core.EntityPickupBomb, core.EntityPickupRadius, core.EntityPickupSpeed} {
		for _, e := range g.scene.Entities(kind) {
			drawPickup(screen, e, ts)
		}
	}
	for _, e := range g.scene.Entities(core.EntityExplosion) {
		anim, _ := g.scene.BlastAnimation(e.Tile)
		drawExplosion(screen, e, anim, now, g.sim.Rules().ExplosionDuration, ts)
	}
	for _, b := range g.sim.Bombs() {
		drawBomb(screen, b, now, ts)
	}
	for _, p := range g.sim.Players() {
		if p.Removed() {
			continue
		}
		pose, _ := g.scene.Pose(p.X, p.Y)
		frame := 0
		if a, ok := g.animators[p.ID]; ok {
			frame = a.frame
		}
		drawPlayer(screen, p, pose, frame, ts)
	}

	g.drawHUD(screen)

	if g.gameOver {
		w, h := g.ScreenSize()
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{0, 0, 0, 128}, false)
		drawText(screen, "GAME OVER", float64(w)/2-30, float64(h)/2-6, color.White)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w, h := g.ScreenSize()
	top := float64(h - hudHeight)
	vector.DrawFilledRect(screen, 0, float32(top), float32(w), hudHeight, color.RGBA{20, 20, 20, 255}, false)

	p, ok := g.sim.Player(g.localID)
	if !ok {
		return
	}
	status := fmt.Sprintf("%s  bombs %d/%d  radius %d  speed %.0f  [%s]",
		paletteFor(p.Character).Name, p.ActiveBombs(), p.Stats.BombCapacity, p.Stats.BlastRadius, p.Stats.Speed,
		g.scheme.keysLabel())
	drawText(screen, status, 6, top+4, color.White)
}

func drawText(screen *ebiten.Image, msg string, x, y float64, clr color.Color) {
	options := &text.DrawOptions{}
	options.GeoM.Translate(x, y)
	options.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, hudFont, options)
}

// Layout 固定逻辑分辨率
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenSize()
}
