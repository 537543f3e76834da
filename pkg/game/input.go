package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mpihlak/ebiten-racing/pkg/game/objects"
)

// Arrow keys and WASD drive the same axes
var (
	throttleKeys = []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}
	brakeKeys    = []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}
	leftKeys     = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}
	rightKeys    = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}
)

// KeyState reports whether a key is held this frame
type KeyState func(k ebiten.Key) bool

// MapKeys turns held keys into driver input. Opposing keys cancel out.
func MapKeys(pressed KeyState) objects.Input {
	var in objects.Input
	if anyPressed(pressed, throttleKeys) {
		in.Accel++
	}
	if anyPressed(pressed, brakeKeys) {
		in.Accel--
	}
	if anyPressed(pressed, leftKeys) {
		in.Steer--
	}
	if anyPressed(pressed, rightKeys) {
		in.Steer++
	}
	return in
}

func anyPressed(pressed KeyState, keys []ebiten.Key) bool {
	for _, k := range keys {
		if pressed(k) {
			return true
		}
	}
	return false
}

// Combine reports a key as held when any of the sources holds it
func Combine(sources ...KeyState) KeyState {
	return func(k ebiten.Key) bool {
		for _, s := range sources {
			if s(k) {
				return true
			}
		}
		return false
	}
}
