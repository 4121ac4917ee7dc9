package client

import (
	"image/color"
	"strings"
	"time"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// walkFrameTime 走路动画每 0.15 秒换一帧
const walkFrameTime = 150 * time.Millisecond

// playerAnimator 每个玩家的走路帧状态
type playerAnimator struct {
	frame   int
	elapsed time.Duration
}

func (a *playerAnimator) update(moving bool, dt time.Duration) {
	if !moving {
		a.frame = 0
		a.elapsed = 0
		return
	}
	a.elapsed += dt
	if a.elapsed >= walkFrameTime {
		a.elapsed = 0
		a.frame = (a.frame + 1) % 2
	}
}

// drawPlayer 绘制玩家；pose 为 damage-*/death-* 时改变外观
func drawPlayer(screen *ebiten.Image, p *core.Player, pose string, frame int, tileSize int) {
	pal := paletteFor(p.Character)
	body := pal.Body
	switch {
	case strings.HasPrefix(pose, "damage-"):
		body = color.RGBA{255, 255, 255, 255}
	case strings.HasPrefix(pose, "death-"):
		body = color.RGBA{120, 120, 120, 200}
	}

	size := float32(tileSize - core.PlayerHitboxInset)
	bodySize := size * 0.7
	drawX := float32(p.X) - bodySize/2
	drawY := float32(p.Y) - bodySize/2

	vector.DrawFilledRect(screen, drawX, drawY, bodySize, bodySize, body, false)
	vector.StrokeRect(screen, drawX, drawY, bodySize, bodySize, 2, pal.Outline, false)

	if strings.HasPrefix(pose, "death-") {
		// 死亡姿势：两个叉眼
		cy := drawY + bodySize*0.35
		for _, cx := range []float32{drawX + bodySize*0.3, drawX + bodySize*0.7} {
			vector.StrokeLine(screen, cx-2, cy-2, cx+2, cy+2, 1, color.Black, false)
			vector.StrokeLine(screen, cx-2, cy+2, cx+2, cy-2, 1, color.Black, false)
		}
		return
	}

	// 手和脚随动画帧摆动
	swing := float32(0)
	if frame == 1 {
		swing = 2
	}
	handSize := bodySize * 0.25
	vector.FillCircle(screen, drawX-swing-2, drawY+bodySize*0.6, handSize, pal.Hand, false)
	vector.FillCircle(screen, drawX+bodySize+swing+2, drawY+bodySize*0.6, handSize, pal.Hand, false)

	footSize := bodySize * 0.3
	vector.DrawFilledRect(screen, drawX+bodySize*0.2-swing, drawY+bodySize, footSize, footSize*0.6, pal.Shoe, false)
	vector.DrawFilledRect(screen, drawX+bodySize*0.6+swing, drawY+bodySize, footSize, footSize*0.6, pal.Shoe, false)

	drawEyes(screen, p.Facing, drawX, drawY, bodySize)
}

// drawEyes 眼睛朝向最后的移动方向
func drawEyes(screen *ebiten.Image, facing core.Direction, drawX, drawY, bodySize float32) {
	eyeSize := bodySize * 0.15
	eyeY := drawY + bodySize*0.3
	spacing := bodySize * 0.2

	lx, rx := drawX+bodySize*0.3, drawX+bodySize*0.7
	ly, ry := eyeY, eyeY
	switch facing {
	case core.DirUp:
		ly, ry = eyeY-2, eyeY-2
	case core.DirDown:
		ly, ry = eyeY+2, eyeY+2
	case core.DirLeft:
		lx, rx = drawX+bodySize*0.3-spacing/2, drawX+bodySize*0.5-spacing/2
	case core.DirRight:
		lx, rx = drawX+bodySize*0.5+spacing/2, drawX+bodySize*0.7+spacing/2
	}

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	vector.FillCircle(screen, lx, ly, eyeSize, white, false)
	vector.FillCircle(screen, rx, ry, eyeSize, white, false)
	vector.FillCircle(screen, lx, ly, eyeSize*0.5, black, false)
	vector.FillCircle(screen, rx, ry, eyeSize*0.5, black, false)
}
