package client

import (
	"image/color"
	"math"
	"strings"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func tileOrigin(tile core.TileKey, tileSize int) (float32, float32) {
	return float32(tile.Col * tileSize), float32(tile.Row * tileSize)
}

// progress 已过时间占总时长的比例，限制在 [0,1]
func progress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, float64(elapsed)/float64(total)))
}

// drawBomb 绘制炸弹：闪烁、引线随时间变短、临近爆炸时红色警告圈
func drawBomb(screen *ebiten.Image, b *core.Bomb, now time.Duration, tileSize int) {
	px, py := tileOrigin(b.Tile, tileSize)
	half := float32(tileSize) / 2
	cx, cy := px+half, py+half

	elapsed := now - b.PlacedAt
	ratio := progress(elapsed, b.FuseDeadline-b.PlacedAt)

	radius := float32(tileSize) * 0.375
	blink := math.Sin(elapsed.Seconds() * 6)
	alpha := uint8(200 + 55*blink)

	vector.FillCircle(screen, cx, cy, radius, color.RGBA{0, 0, 0, alpha}, false)
	vector.StrokeCircle(screen, cx, cy, radius, 2, color.RGBA{50, 50, 50, 255}, false)

	fuseLength := float32(15 * (1 - ratio))
	if fuseLength > 0 {
		fuseX := cx - radius*0.5
		fuseY := cy - radius
		vector.StrokeLine(screen, fuseX, fuseY, fuseX-fuseLength*0.5, fuseY-fuseLength,
			2, color.RGBA{139, 69, 19, 255}, false)

		if blink > 0 {
			spark := color.RGBA{255, uint8(100 + 155*blink), 0, 255}
			vector.FillCircle(screen, fuseX-fuseLength*0.5, fuseY-fuseLength, 3, spark, false)
		}
	}

	if ratio > 0.7 {
		warningAlpha := uint8((ratio - 0.7) / 0.3 * 100)
		warningRadius := radius + float32(10*(ratio-0.7)/0.3)
		vector.StrokeCircle(screen, cx, cy, warningRadius, 2, color.RGBA{255, 0, 0, warningAlpha}, false)
	}
}

// drawDanger 即将被波及的格子，越接近爆炸颜色越深
func drawDanger(screen *ebiten.Image, tile core.TileKey, remaining, fuse time.Duration, tileSize int) {
	px, py := tileOrigin(tile, tileSize)
	ts := float32(tileSize)
	alpha := uint8(30 + 90*(1-progress(remaining, fuse)))
	vector.DrawFilledRect(screen, px, py, ts, ts, color.RGBA{255, 0, 0, alpha}, false)
}

// explosionColor 火焰由黄到红渐变
func explosionColor(ratio float64, alpha uint8) color.RGBA {
	switch {
	case ratio < 0.3:
		return color.RGBA{255, 255, 0, alpha}
	case ratio < 0.6:
		return color.RGBA{255, 165, 0, alpha}
	}
	return color.RGBA{255, 0, 0, alpha}
}

// drawExplosion 按分段动画绘制一个爆炸格子：中心整格，中段细条，末端半格
func drawExplosion(screen *ebiten.Image, e *Entity, anim string, now, duration time.Duration, tileSize int) {
	px, py := tileOrigin(e.Tile, tileSize)
	ts := float32(tileSize)
	ratio := progress(now-e.Born, duration)
	alpha := uint8(255 * (1 - ratio))
	c := explosionColor(ratio, alpha)

	thin := ts * 0.5
	inset := (ts - thin) / 2

	x, y, w, h := px, py, ts, ts
	switch {
	case anim == "explosion-mid-horizontal":
		y, h = py+inset, thin
	case anim == "explosion-mid-vertical":
		x, w = px+inset, thin
	case strings.HasPrefix(anim, "explosion-end-"):
		switch strings.TrimPrefix(anim, "explosion-end-") {
		case "left":
			x, y, w, h = px+ts/2, py+inset, ts/2, thin
		case "right":
			y, w, h = py+inset, ts/2, thin
		case "up":
			x, y, w, h = px+inset, py+ts/2, thin, ts/2
		case "down":
			x, w, h = px+inset, thin, ts/2
		}
		// 末端火焰的圆头
		vector.FillCircle(screen, px+ts/2, py+ts/2, thin/2, c, false)
	}

	vector.DrawFilledRect(screen, x, y, w, h, c, false)
	if ratio < 0.5 {
		inner := color.RGBA{255, 255, 255, uint8(200 * (1 - ratio*2))}
		vector.DrawFilledRect(screen, x+w*0.2, y+h*0.2, w*0.6, h*0.6, inner, false)
	}
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{255, 100, 0, alpha}, false)
}

var pickupColors = map[core.EntityKind]color.RGBA{
	core.EntityPickupBomb:   {30, 30, 30, 255},
	core.EntityPickupRadius: {255, 140, 0, 255},
	core.EntityPickupSpeed:  {0, 160, 255, 255},
}

// drawPickup 绘制道具：圆角底板加类型色圆点
func drawPickup(screen *ebiten.Image, e *Entity, tileSize int) {
	px, py := tileOrigin(e.Tile, tileSize)
	ts := float32(tileSize)
	vector.DrawFilledRect(screen, px+4, py+4, ts-8, ts-8, color.RGBA{250, 240, 200, 255}, false)
	vector.StrokeRect(screen, px+4, py+4, ts-8, ts-8, 2, color.RGBA{120, 90, 40, 255}, false)
	vector.FillCircle(screen, px+ts/2, py+ts/2, ts/5, pickupColors[e.Kind], false)
}
