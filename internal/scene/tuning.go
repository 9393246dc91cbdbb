// Package scene owns the animated tree: particle and ornament formations,
// the star topper, and the rotation pivot the whole assembly hangs from.
package scene

const (
	// AnimationHz is the nominal animation loop rate. All per-frame
	// constants below assume this cadence.
	AnimationHz = 60

	ExplosionSpeed    = 0.20 // fraction of remaining distance per frame while exploding
	ReturnSpeed       = 0.12 // reassembly runs slower than the burst
	SpeedSwitchFactor = 0.1  // explosion factor above which the fast speed applies

	PivotSmoothing = 0.1    // per-frame approach toward a commanded yaw
	FreeSpinRate   = 0.0045 // radians per frame while no hand is steering

	TopperRise       = 2.5  // extra height at full explosion
	TopperWobbleAmp  = 0.08 // idle bob amplitude
	TopperWobbleFreq = 1.6  // idle bob angular frequency, radians per second

	OrnamentSpinMin = 0.4 // self-rotation, radians per second
	OrnamentSpinMax = 1.8
)
