package scene

import "github.com/ayusman/tannenbaum/internal/interaction"

// Pivot is the single rotation the whole animated assembly hangs from.
//
// While a hand is steering, the yaw exponentially approaches the commanded
// angle and manual camera drag is suppressed so there is only one control
// source. With no hand, the yaw advances at a fixed ambient rate and drag
// is allowed again. The switch is immediate both ways; the upstream cell
// already publishes whole cycles, so no hysteresis is needed here.
type Pivot struct {
	yaw         float64
	dragEnabled bool
}

// NewPivot returns a pivot at yaw zero with camera drag enabled.
func NewPivot() Pivot {
	return Pivot{dragEnabled: true}
}

// Update advances the pivot one frame under the given interaction state.
func (p *Pivot) Update(st interaction.State) {
	if st.FreeSpin {
		p.yaw += FreeSpinRate
		p.dragEnabled = true
		return
	}

	p.yaw += (st.Rotation - p.yaw) * PivotSmoothing
	p.dragEnabled = false
}

// Yaw returns the current yaw in radians.
func (p *Pivot) Yaw() float64 {
	return p.yaw
}

// DragEnabled reports whether manual camera drag is currently permitted.
func (p *Pivot) DragEnabled() bool {
	return p.dragEnabled
}
