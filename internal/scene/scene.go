package scene

import (
	"math"
	"math/rand"
	"sync"

	"github.com/ayusman/tannenbaum/internal/interaction"
)

// Scene composes the animated entities: the particle cloud, the ornament
// group, the star topper, and the pivot they all rotate under.
//
// The animation loop calls Advance once per frame; the renderer feed reads
// the live buffers through Snapshot. Both sides serialize on one mutex.
// Advance allocates nothing.
type Scene struct {
	mu sync.Mutex

	particles     *Formation
	particleColor []float32
	particleSize  []float32

	ornaments        *Formation
	ornamentColor    []float32
	ornamentSize     []float32
	ornamentAngle    []float32
	ornamentSpinRate []float32

	pivot Pivot

	topperBaseY  float64
	topperOffset float64
	topperY      float64

	frame uint64
	dirty bool
}

// View exposes the scene's buffers to a snapshot callback. The slices
// alias the live arenas and are only valid inside the callback, while the
// scene lock is held.
type View struct {
	ParticlePos   []float32
	ParticleColor []float32
	ParticleSize  []float32

	OrnamentPos   []float32
	OrnamentColor []float32
	OrnamentSize  []float32
	OrnamentAngle []float32

	PivotYaw    float64
	DragEnabled bool
	TopperY     float64
}

// Build constructs the tree from the given parameters. Formation arenas
// are sized here and never resized; the same seed always yields the same
// tree.
func Build(p Params) *Scene {
	rng := rand.New(rand.NewSource(p.Seed))

	s := &Scene{
		particles:        NewFormation(p.Particles),
		particleColor:    make([]float32, 3*p.Particles),
		particleSize:     make([]float32, p.Particles),
		ornaments:        NewFormation(p.Ornaments),
		ornamentColor:    make([]float32, 3*p.Ornaments),
		ornamentSize:     make([]float32, p.Ornaments),
		ornamentAngle:    make([]float32, p.Ornaments),
		ornamentSpinRate: make([]float32, p.Ornaments),
		pivot:            NewPivot(),
		topperBaseY:      p.Height + 0.35,
	}
	s.topperY = s.topperBaseY

	buildParticles(s.particles, s.particleColor, s.particleSize, p, rng)
	buildOrnaments(s.ornaments, s.ornamentColor, s.ornamentSize, s.ornamentSpinRate, p, rng)

	return s
}

// Advance moves the scene one frame under the given interaction state.
func (s *Scene) Advance(st interaction.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame++
	elapsed := float64(s.frame) / AnimationHz

	s.particles.Step(st.ExplosionTarget)
	s.ornaments.Step(st.ExplosionTarget)

	// Ornament self-rotation runs off elapsed time alone; only the
	// position blend is factor-gated.
	for i := range s.ornamentAngle {
		s.ornamentAngle[i] = float32(math.Mod(float64(s.ornamentSpinRate[i])*elapsed, 2*math.Pi))
	}

	// The topper rises on a single vertical scalar, with a small idle bob
	// layered on top.
	speed := approachSpeed(st.ExplosionTarget)
	s.topperOffset = approach(s.topperOffset, st.ExplosionTarget*TopperRise, speed)
	s.topperY = s.topperBaseY + s.topperOffset + TopperWobbleAmp*math.Sin(elapsed*TopperWobbleFreq)

	s.pivot.Update(st)

	s.dirty = true
}

// Snapshot runs fn with a view of the live buffers under the scene lock
// and reports whether the scene has advanced since the previous snapshot.
// The dirty flag clears whether or not fn is invoked with changes; callers
// that skip encoding on a clean scene simply pass through.
func (s *Scene) Snapshot(fn func(View)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := s.dirty
	s.dirty = false

	fn(View{
		ParticlePos:   s.particles.Current(),
		ParticleColor: s.particleColor,
		ParticleSize:  s.particleSize,
		OrnamentPos:   s.ornaments.Current(),
		OrnamentColor: s.ornamentColor,
		OrnamentSize:  s.ornamentSize,
		OrnamentAngle: s.ornamentAngle,
		PivotYaw:      s.pivot.Yaw(),
		DragEnabled:   s.pivot.DragEnabled(),
		TopperY:       s.topperY,
	})

	return changed
}

// Particles returns the particle formation for direct inspection in tests.
func (s *Scene) Particles() *Formation {
	return s.particles
}

// Ornaments returns the ornament formation for direct inspection in tests.
func (s *Scene) Ornaments() *Formation {
	return s.ornaments
}

// TopperY returns the topper's current height.
func (s *Scene) TopperY() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topperY
}

// PivotYaw returns the pivot's current yaw.
func (s *Scene) PivotYaw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pivot.Yaw()
}

// DragEnabled reports whether manual camera drag is currently permitted.
func (s *Scene) DragEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pivot.DragEnabled()
}
