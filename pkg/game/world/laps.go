package world

import "time"

// LapCounter counts laps on the rising edge of the car overlapping the
// finish zone, so a car parked on the line counts once.
//
// Direction of travel is not checked: backing out of the zone and driving
// in again counts another lap.
type LapCounter struct {
	Laps       int
	insideZone bool
}

// Observe feeds this frame's overlap state and reports whether a lap was
// counted.
func (lc *LapCounter) Observe(overlaps bool) bool {
	if overlaps && !lc.insideZone {
		lc.Laps++
		lc.insideZone = true
		return true
	}
	if !overlaps && lc.insideZone {
		lc.insideZone = false
	}
	return false
}

func (lc *LapCounter) InsideZone() bool {
	return lc.insideZone
}

// LapTimer keeps lap splits in simulation time. The first counted crossing
// starts the clock, every later one closes a lap.
type LapTimer struct {
	Last      time.Duration
	Best      time.Duration
	Completed int

	started  bool
	lapStart time.Duration
}

// Mark records a finish line crossing at simulation time now
func (lt *LapTimer) Mark(now time.Duration) {
	if !lt.started {
		lt.started = true
		lt.lapStart = now
		return
	}

	lap := now - lt.lapStart
	lt.Last = lap
	if lt.Best == 0 || lap < lt.Best {
		lt.Best = lap
	}
	lt.Completed++
	lt.lapStart = now
}

// Current returns the running time of the lap in progress, zero before the
// first crossing.
func (lt *LapTimer) Current(now time.Duration) time.Duration {
	if !lt.started {
		return 0
	}
	return now - lt.lapStart
}

func (lt *LapTimer) Started() bool {
	return lt.started
}
