package core

// Intent 一帧内玩家的输入
type Intent struct {
	Up        bool
	Down      bool
	Left      bool
	Right     bool
	PlaceBomb bool
}

// Direction 恰好按下一个方向键时返回该方向；
// 没有按键或同时按下多个（包括相反方向）都视为不移动
func (i Intent) Direction() (Direction, bool) {
	pressed := 0
	var dir Direction
	if i.Up {
		pressed++
		dir = DirUp
	}
	if i.Down {
		pressed++
		dir = DirDown
	}
	if i.Left {
		pressed++
		dir = DirLeft
	}
	if i.Right {
		pressed++
		dir = DirRight
	}
	if pressed != 1 {
		return DirDown, false
	}
	return dir, true
}

// Velocity 输入对应的速度（像素/秒），每帧重新计算，不会残留
func (i Intent) Velocity(speed float64) (float64, float64) {
	dir, ok := i.Direction()
	if !ok {
		return 0, 0
	}
	dx, dy := dir.Delta()
	return float64(dx) * speed, float64(dy) * speed
}
