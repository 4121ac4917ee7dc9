package client

import (
	"bombarena/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// ControlScheme 按键方案
type ControlScheme int

const (
	ControlWASD  ControlScheme = iota // WASD + 空格键
	ControlArrow                      // 方向键 + 回车键
)

func (c ControlScheme) String() string {
	switch c {
	case ControlWASD:
		return "WASD+空格"
	case ControlArrow:
		return "方向键+回车"
	}
	return "未知"
}

// keysLabel HUD 中的 ASCII 按键说明
func (c ControlScheme) keysLabel() string {
	if c == ControlArrow {
		return "arrows+enter"
	}
	return "wasd+space"
}

type keyBinding struct {
	up, down, left, right, bomb ebiten.Key
}

func (c ControlScheme) keys() keyBinding {
	if c == ControlArrow {
		return keyBinding{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyEnter}
	}
	return keyBinding{ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD, ebiten.KeySpace}
}

// IntentFrom 按键状态转换为移动意图；pressed 便于脱离窗口测试
func IntentFrom(scheme ControlScheme, pressed func(ebiten.Key) bool) core.Intent {
	k := scheme.keys()
	return core.Intent{
		Up:        pressed(k.up),
		Down:      pressed(k.down),
		Left:      pressed(k.left),
		Right:     pressed(k.right),
		PlaceBomb: pressed(k.bomb),
	}
}

// ReadIntent 读取当前键盘状态
func ReadIntent(scheme ControlScheme) core.Intent {
	return IntentFrom(scheme, ebiten.IsKeyPressed)
}
