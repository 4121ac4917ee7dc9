package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntent_Direction(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		dir    Direction
		moving bool
	}{
		{name: "none", intent: Intent{}},
		{name: "up", intent: Intent{Up: true}, dir: DirUp, moving: true},
		{name: "down", intent: Intent{Down: true}, dir: DirDown, moving: true},
		{name: "left", intent: Intent{Left: true}, dir: DirLeft, moving: true},
		{name: "right with bomb", intent: Intent{Right: true, PlaceBomb: true}, dir: DirRight, moving: true},
		{name: "left+right", intent: Intent{Left: true, Right: true}},
		{name: "up+down", intent: Intent{Up: true, Down: true}},
		{name: "left+up", intent: Intent{Left: true, Up: true}},
		{name: "all", intent: Intent{Up: true, Down: true, Left: true, Right: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, moving := tt.intent.Direction()
			assert.Equal(t, tt.moving, moving)
			if tt.moving {
				assert.Equal(t, tt.dir, dir)
			}
		})
	}
}

func TestIntent_Velocity(t *testing.T) {
	vx, vy := Intent{Left: true}.Velocity(80)
	assert.Equal(t, -80.0, vx)
	assert.Equal(t, 0.0, vy)

	vx, vy = Intent{Left: true, Up: true}.Velocity(80)
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}
