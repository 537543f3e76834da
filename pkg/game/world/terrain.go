package world

import "image/color"

// Terrain is the surface class of a single track pixel
type Terrain int

const (
	Drivable Terrain = iota
	OffTrack
)

func (t Terrain) String() string {
	switch t {
	case Drivable:
		return "drivable"
	case OffTrack:
		return "off-track"
	default:
		return "unknown"
	}
}

// SurfaceColor is the reserved RGB value for drivable pixels
var SurfaceColor = color.RGBA{85, 85, 85, 255}

// Classifier decides what kind of terrain a track pixel encodes
type Classifier interface {
	Classify(c color.RGBA) Terrain
}

// ColorClassifier treats exactly one RGB value as drivable. Alpha is ignored.
type ColorClassifier struct {
	Surface color.RGBA
}

func (cc *ColorClassifier) Classify(c color.RGBA) Terrain {
	if c.R == cc.Surface.R && c.G == cc.Surface.G && c.B == cc.Surface.B {
		return Drivable
	}
	return OffTrack
}
