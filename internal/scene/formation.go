package scene

// Formation is a fixed-size arena of entity positions with two immutable
// pose sets (rest and exploded) and one mutable current set. Positions are
// stored as flat xyz triples so they can be handed to the renderer as a
// parallel buffer without conversion.
//
// All three slices are allocated once at construction and never resized;
// Step mutates current in place and performs no allocation.
type Formation struct {
	rest     []float32
	exploded []float32
	current  []float32
}

// NewFormation allocates a formation for n entities, all at the origin.
func NewFormation(n int) *Formation {
	return &Formation{
		rest:     make([]float32, 3*n),
		exploded: make([]float32, 3*n),
		current:  make([]float32, 3*n),
	}
}

// Count returns the number of entities in the arena.
func (f *Formation) Count() int {
	return len(f.rest) / 3
}

// Place sets the rest and exploded positions of entity i and snaps its
// current position to rest. Builder use only; positions are immutable once
// the scene starts animating.
func (f *Formation) Place(i int, rest, exploded [3]float32) {
	copy(f.rest[3*i:3*i+3], rest[:])
	copy(f.exploded[3*i:3*i+3], exploded[:])
	copy(f.current[3*i:3*i+3], rest[:])
}

// Current returns the live position buffer. The renderer reads it in place;
// Step mutates it every frame.
func (f *Formation) Current() []float32 {
	return f.current
}

// Rest returns entity i's rest position.
func (f *Formation) Rest(i int) [3]float32 {
	return [3]float32{f.rest[3*i], f.rest[3*i+1], f.rest[3*i+2]}
}

// Exploded returns entity i's exploded position.
func (f *Formation) Exploded(i int) [3]float32 {
	return [3]float32{f.exploded[3*i], f.exploded[3*i+1], f.exploded[3*i+2]}
}

// Step advances every entity one frame toward the blend of rest and
// exploded weighted by the instantaneous factor. Each axis exponentially
// approaches its target: the position never snaps, it decays onto the
// target with ratio (1-speed) per frame. The approach speed is asymmetric
// so exploding reads snappier than reassembling.
func (f *Formation) Step(factor float64) {
	speed := approachSpeed(factor)
	fa := float32(factor)

	for i := range f.current {
		target := f.rest[i] + (f.exploded[i]-f.rest[i])*fa
		f.current[i] += (target - f.current[i]) * speed
	}
}

// approachSpeed selects the per-frame approach fraction for the given
// explosion factor.
func approachSpeed(factor float64) float32 {
	if factor > SpeedSwitchFactor {
		return ExplosionSpeed
	}
	return ReturnSpeed
}

// approach advances a scalar one frame toward target with the same
// exponential law the formations use. The topper's vertical offset runs
// on this 1D variant.
func approach(current, target float64, speed float32) float64 {
	return current + (target-current)*float64(speed)
}
