package core

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// TileKey 格子坐标，可直接作为 map/set 的键
type TileKey struct {
	Col, Row int
}

// TileSet 格子集合
type TileSet = mapset.Set[TileKey]

// NewTileSet 创建格子集合
func NewTileSet(tiles ...TileKey) TileSet {
	return mapset.Of(tiles...)
}

func (t TileKey) String() string {
	return fmt.Sprintf("(%d,%d)", t.Col, t.Row)
}

// Step 沿方向移动 n 格
func (t TileKey) Step(dir Direction, n int) TileKey {
	dx, dy := dir.Delta()
	return TileKey{Col: t.Col + dx*n, Row: t.Row + dy*n}
}

// Center 格子中心的世界坐标
func (t TileKey) Center(tileSize int) (float64, float64) {
	half := float64(tileSize) / 2
	return float64(t.Col*tileSize) + half, float64(t.Row*tileSize) + half
}

// TileAt 世界坐标转换为格子（向下取整）
func TileAt(x, y float64, tileSize int) TileKey {
	ts := float64(tileSize)
	return TileKey{Col: int(math.Floor(x / ts)), Row: int(math.Floor(y / ts))}
}

// Bounds 网格尺寸（格子数）
type Bounds struct {
	Cols, Rows int
}

// Contains 检查格子是否在网格内；零值 Bounds 表示无边界
func (b Bounds) Contains(t TileKey) bool {
	if b.Cols <= 0 || b.Rows <= 0 {
		return true
	}
	return t.Col >= 0 && t.Col < b.Cols && t.Row >= 0 && t.Row < b.Rows
}

// Direction 四个朝向
type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

// Directions 爆炸扩散顺序：上、下、左、右
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta 返回方向的单位格偏移
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Horizontal 是否为水平方向
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Facing 动画使用的朝向名
func (d Direction) Facing() string {
	switch d {
	case DirUp:
		return "back"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "front"
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "unknown"
}
