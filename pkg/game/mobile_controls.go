package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// MobileControls handles touch-based input for mobile devices
type MobileControls struct {
	// Held buttons, each standing in for a key
	leftButton     TouchZone
	rightButton    TouchZone
	brakeButton    TouchZone
	throttleButton TouchZone

	// Tap buttons
	pauseButton   TouchZone
	menuButton    TouchZone
	restartButton TouchZone

	held          map[ebiten.Key]bool
	menuOpen      bool
	hasTouchInput bool // Track if we've ever seen touch input
}

// TouchZone defines a rectangular touch area
type TouchZone struct {
	X, Y, Width, Height int
	Enabled             bool
	Key                 ebiten.Key // key emulated while held
	Label               string
}

// MobileInput is the one-shot actions tapped this frame
type MobileInput struct {
	PausePressed   bool
	RestartPressed bool
}

// NewMobileControls lays out steering on the lower left and pedals on the
// lower right
func NewMobileControls(screenWidth, screenHeight int) *MobileControls {
	buttonSize := 90
	margin := 20
	y := screenHeight - buttonSize - margin

	return &MobileControls{
		leftButton: TouchZone{
			X: margin, Y: y, Width: buttonSize, Height: buttonSize,
			Enabled: true, Key: ebiten.KeyArrowLeft, Label: "<",
		},
		rightButton: TouchZone{
			X: 2*margin + buttonSize, Y: y, Width: buttonSize, Height: buttonSize,
			Enabled: true, Key: ebiten.KeyArrowRight, Label: ">",
		},
		brakeButton: TouchZone{
			X: screenWidth - 2*(buttonSize+margin), Y: y, Width: buttonSize, Height: buttonSize,
			Enabled: true, Key: ebiten.KeyArrowDown, Label: "BRK",
		},
		throttleButton: TouchZone{
			X: screenWidth - buttonSize - margin, Y: y, Width: buttonSize, Height: buttonSize,
			Enabled: true, Key: ebiten.KeyArrowUp, Label: "GAS",
		},
		pauseButton: TouchZone{
			X: screenWidth/2 - buttonSize/4, Y: margin,
			Width: buttonSize / 2, Height: buttonSize / 2,
			Enabled: true, Label: "||",
		},
		menuButton: TouchZone{
			X: screenWidth - buttonSize/2 - margin, Y: margin,
			Width: buttonSize / 2, Height: buttonSize / 2,
			Enabled: true, Label: "=",
		},
		restartButton: TouchZone{
			X: screenWidth - buttonSize/2 - margin, Y: margin + buttonSize/2 + 10,
			Width: buttonSize / 2, Height: buttonSize / 2,
			Enabled: false, Label: "R", // Only shown when menu is open
		},
		held: make(map[ebiten.Key]bool),
	}
}

// Contains checks if a point is within the touch zone
func (tz *TouchZone) Contains(x, y int) bool {
	return tz.Enabled &&
		x >= tz.X && x < tz.X+tz.Width &&
		y >= tz.Y && y < tz.Y+tz.Height
}

func (mc *MobileControls) holdButtons() []*TouchZone {
	return []*TouchZone{&mc.leftButton, &mc.rightButton, &mc.brakeButton, &mc.throttleButton}
}

func (mc *MobileControls) tapButtons() []*TouchZone {
	return []*TouchZone{&mc.pauseButton, &mc.menuButton, &mc.restartButton}
}

// Pressed reports whether a touch button emulating k is held. It has the
// KeyState signature so it can be combined with the keyboard.
func (mc *MobileControls) Pressed(k ebiten.Key) bool {
	return mc.held[k]
}

// OnButton reports whether a screen position hits any enabled button
func (mc *MobileControls) OnButton(x, y int) bool {
	for _, b := range append(mc.holdButtons(), mc.tapButtons()...) {
		if b.Contains(x, y) {
			return true
		}
	}
	return false
}

// Update processes touch input for this frame
func (mc *MobileControls) Update() MobileInput {
	clear(mc.held)

	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		mc.hasTouchInput = true
	}
	if !mc.hasTouchInput {
		return MobileInput{}
	}

	positions := make([][2]int, 0, len(touchIDs))
	for _, id := range touchIDs {
		x, y := ebiten.TouchPosition(id)
		positions = append(positions, [2]int{x, y})
	}

	var taps [][2]int
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		taps = append(taps, [2]int{x, y})
	}

	return mc.apply(positions, taps)
}

// apply updates button state from held touch positions and new taps
func (mc *MobileControls) apply(held, taps [][2]int) MobileInput {
	for _, p := range held {
		for _, b := range mc.holdButtons() {
			if b.Contains(p[0], p[1]) {
				mc.held[b.Key] = true
			}
		}
	}

	var in MobileInput
	for _, p := range taps {
		if mc.pauseButton.Contains(p[0], p[1]) {
			in.PausePressed = true
		}
		if mc.restartButton.Contains(p[0], p[1]) {
			in.RestartPressed = true
			mc.menuOpen = false
			mc.restartButton.Enabled = false
			continue
		}
		if mc.menuButton.Contains(p[0], p[1]) {
			mc.menuOpen = !mc.menuOpen
			mc.restartButton.Enabled = mc.menuOpen
		}
	}
	return in
}

// Draw renders the mobile control elements on screen
func (mc *MobileControls) Draw(screen *ebiten.Image, isPaused bool) {
	// Only show controls if we've detected touch input (actual mobile device)
	if !mc.hasTouchInput {
		return
	}

	for _, b := range mc.holdButtons() {
		bg := color.RGBA{100, 100, 100, 160}
		if mc.held[b.Key] {
			bg = color.RGBA{150, 150, 150, 200} // Highlighted when pressed
		}
		mc.drawButton(screen, *b, b.Label, bg)
	}

	pauseText := mc.pauseButton.Label
	if isPaused {
		pauseText = ">"
	}
	mc.drawButton(screen, mc.pauseButton, pauseText, color.RGBA{120, 120, 120, 200})
	mc.drawButton(screen, mc.menuButton, mc.menuButton.Label, color.RGBA{80, 80, 80, 200})
	mc.drawButton(screen, mc.restartButton, mc.restartButton.Label, color.RGBA{150, 100, 100, 200})
}

// drawButton draws a simple button with text
func (mc *MobileControls) drawButton(screen *ebiten.Image, zone TouchZone, label string, bg color.RGBA) {
	if !zone.Enabled {
		return
	}

	vector.DrawFilledRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		bg, false)

	vector.StrokeRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		2, color.RGBA{255, 255, 255, 150}, false)

	ebitenutil.DebugPrintAt(screen, label, zone.X+zone.Width/2-3*len(label), zone.Y+zone.Height/2-8)
}
