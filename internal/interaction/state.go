// Package interaction reduces gesture classifications into the shared
// interaction state consumed by the animation loop.
package interaction

import (
	"sync/atomic"

	"github.com/ayusman/tannenbaum/internal/gesture"
)

// State is the control signal pair published once per inference cycle.
//
// ExplosionTarget is the blend target toward the exploded formation; the
// reducer emits the binary targets 0 and 1 and the interpolator supplies
// the smoothing. Rotation is the requested pivot yaw in radians; it is
// only meaningful while FreeSpin is false. FreeSpin true means no hand
// was detected and the scene idles at its ambient spin.
type State struct {
	ExplosionTarget float64
	Rotation        float64
	FreeSpin        bool
}

// noHand is the sentinel published before any detection and whenever the
// detector reports no hand.
var noHand = State{ExplosionTarget: 0, Rotation: 0, FreeSpin: true}

// Reduce folds one inference cycle's classification into a State.
// A nil classification means no hand was detected this cycle.
func Reduce(cls *gesture.Classification) State {
	if cls == nil {
		return noHand
	}

	s := State{
		Rotation: cls.RotationHint,
		FreeSpin: false,
	}
	if cls.OpenPalm {
		s.ExplosionTarget = 1.0
	}
	return s
}

// Label returns the user-facing name of the gesture behind this state.
func (s State) Label() string {
	switch {
	case s.FreeSpin:
		return "no hand"
	case s.ExplosionTarget >= 1.0:
		return "open palm"
	default:
		return "fist"
	}
}

// Cell is a single-slot, last-write-wins container for the published
// State. The inference loop writes it once per cycle and the animation
// loop reads the latest value each frame; intermediate writes are simply
// overwritten, never queued, and readers never observe a torn pair.
type Cell struct {
	v atomic.Pointer[State]
}

// NewCell returns a Cell holding the no-hand sentinel.
func NewCell() *Cell {
	c := &Cell{}
	s := noHand
	c.v.Store(&s)
	return c
}

// Publish replaces the current state.
func (c *Cell) Publish(s State) {
	c.v.Store(&s)
}

// Current returns the most recently published state.
func (c *Cell) Current() State {
	return *c.v.Load()
}
