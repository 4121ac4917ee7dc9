package core

import (
	"fmt"
	"math"
)

// ObstacleRegion 关卡中的矩形障碍区域（世界坐标）
type ObstacleRegion struct {
	X, Y                 float64
	Width, Height        float64
	NoSpawn              bool // 不允许生成砖块/炸弹
	PlayerSpawnExclusive bool // 仅为玩家出生点保留的安全区
}

// Tile 区域原点所在的格子；坐标无效时 ok 为 false
func (r ObstacleRegion) Tile(tileSize int) (TileKey, bool) {
	if tileSize <= 0 || !finite(r.X) || !finite(r.Y) || r.X < 0 || r.Y < 0 {
		return TileKey{}, false
	}
	return TileAt(r.X, r.Y, tileSize), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Geometry 关卡静态几何
type Geometry struct {
	Cols, Rows int
	TileSize   int
	Obstacles  []ObstacleRegion
	Spawns     []TileKey // 玩家出生点，按模板中的行优先顺序
}

// Bounds 网格边界
func (g Geometry) Bounds() Bounds {
	return Bounds{Cols: g.Cols, Rows: g.Rows}
}

// Validate 检查尺寸
func (g Geometry) Validate() error {
	if g.Cols <= 0 || g.Rows <= 0 || g.TileSize <= 0 {
		return fmt.Errorf("%w: %dx%d tile=%d", ErrInvalidGeometry, g.Cols, g.Rows, g.TileSize)
	}
	return nil
}

// DefaultLayout 经典竞技场模板：W=墙壁, P=出生点, x=出生点安全区, .=空地
var DefaultLayout = []string{
	"WWWWWWWWWWWWWWWWW",
	"WPx...........xPW",
	"WxW.W.W.W.W.W.WxW",
	"W...............W",
	"W.W.W.W.W.W.W.W.W",
	"W...............W",
	"W.W.W.W.W.W.W.W.W",
	"W...............W",
	"W.W.W.W.W.W.W.W.W",
	"W...............W",
	"WxW.W.W.W.W.W.WxW",
	"WPx...........xPW",
	"WWWWWWWWWWWWWWWWW",
}

// ParseLayout 解析地图模板；行长度不一致时以最长行为宽度，未知字符视为空地
func ParseLayout(rows []string, tileSize int) Geometry {
	g := Geometry{Rows: len(rows), TileSize: tileSize}
	for y, row := range rows {
		if len(row) > g.Cols {
			g.Cols = len(row)
		}
		for x := 0; x < len(row); x++ {
			region := ObstacleRegion{
				X:      float64(x * tileSize),
				Y:      float64(y * tileSize),
				Width:  float64(tileSize),
				Height: float64(tileSize),
			}
			switch row[x] {
			case 'W':
				region.NoSpawn = true
			case 'P':
				region.NoSpawn = true
				region.PlayerSpawnExclusive = true
				g.Spawns = append(g.Spawns, TileKey{Col: x, Row: y})
			case 'x':
				region.NoSpawn = true
				region.PlayerSpawnExclusive = true
			default:
				continue
			}
			g.Obstacles = append(g.Obstacles, region)
		}
	}
	return g
}
