package client

import (
	"image/color"

	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	grassColor  = color.RGBA{34, 139, 34, 255}
	marginColor = color.RGBA{44, 160, 44, 255}
	wallColor   = color.RGBA{80, 80, 80, 255}
	crateColor  = color.RGBA{205, 133, 63, 255}
)

// drawTiles 绘制地面与墙壁；出生点安全区用浅一些的草地色
func drawTiles(screen *ebiten.Image, sim *core.Simulation) {
	g := sim.Geometry()
	blocked := sim.Blocked()
	ts := float32(g.TileSize)

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			tile := core.TileKey{Col: col, Row: row}
			px := float32(col) * ts
			py := float32(row) * ts

			c := grassColor
			switch {
			case blocked.IsBlastBlocked(tile):
				c = wallColor
			case blocked.IsSpawnBlocked(tile):
				c = marginColor
			}
			vector.DrawFilledRect(screen, px, py, ts, ts, c, false)
			vector.StrokeRect(screen, px, py, ts, ts, 1, color.RGBA{0, 0, 0, 100}, false)

			if blocked.IsBlastBlocked(tile) {
				// 十字纹理
				vector.StrokeLine(screen, px+ts/2, py+5, px+ts/2, py+ts-5, 2, color.RGBA{60, 60, 60, 255}, false)
				vector.StrokeLine(screen, px+5, py+ts/2, px+ts-5, py+ts/2, 2, color.RGBA{60, 60, 60, 255}, false)
			}
		}
	}
}

// drawCrate 绘制砖块，横线模拟纹理
func drawCrate(screen *ebiten.Image, tile core.TileKey, tileSize int) {
	ts := float32(tileSize)
	px := float32(tile.Col) * ts
	py := float32(tile.Row) * ts

	vector.DrawFilledRect(screen, px, py, ts, ts, crateColor, false)
	vector.StrokeRect(screen, px, py, ts, ts, 1, color.RGBA{0, 0, 0, 100}, false)
	for i := 0; i < 3; i++ {
		lineY := py + ts*float32(i*2+1)/6
		vector.StrokeLine(screen, px+2, lineY, px+ts-2, lineY, 1, color.RGBA{180, 118, 53, 255}, false)
	}
}
