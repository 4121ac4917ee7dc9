package client

import (
	"image/color"

	"bombarena/pkg/core"
)

// palette 角色配色
type palette struct {
	Name    string // HUD 使用 ASCII，basicfont 没有中文字形
	Body    color.RGBA
	Outline color.RGBA
	Hand    color.RGBA
	Shoe    color.RGBA
}

var palettes = map[core.CharacterType]palette{
	core.CharacterWhite: {
		Name:    "white",
		Body:    color.RGBA{255, 255, 255, 255},
		Outline: color.RGBA{0, 0, 0, 255},
		Hand:    color.RGBA{255, 150, 150, 255},
		Shoe:    color.RGBA{50, 50, 50, 255},
	},
	core.CharacterBlack: {
		Name:    "black",
		Body:    color.RGBA{40, 40, 40, 255},
		Outline: color.RGBA{200, 200, 200, 255},
		Hand:    color.RGBA{80, 80, 120, 255},
		Shoe:    color.RGBA{180, 180, 180, 255},
	},
	core.CharacterRed: {
		Name:    "red",
		Body:    color.RGBA{255, 80, 80, 255},
		Outline: color.RGBA{150, 0, 0, 255},
		Hand:    color.RGBA{255, 200, 100, 255},
		Shoe:    color.RGBA{100, 0, 0, 255},
	},
	core.CharacterBlue: {
		Name:    "blue",
		Body:    color.RGBA{100, 180, 255, 255},
		Outline: color.RGBA{0, 50, 150, 255},
		Hand:    color.RGBA{150, 220, 255, 255},
		Shoe:    color.RGBA{0, 30, 100, 255},
	},
}

func paletteFor(c core.CharacterType) palette {
	if p, ok := palettes[c]; ok {
		return p
	}
	return palettes[core.CharacterWhite]
}
