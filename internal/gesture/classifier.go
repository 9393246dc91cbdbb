// Package gesture classifies a detected hand pose into the discrete and
// continuous control signals that drive the scene.
package gesture

import "github.com/ayusman/tannenbaum/internal/detector"

// OpenPalmThreshold is the minimum number of extended fingers for a hand
// to classify as an open palm rather than a fist.
const OpenPalmThreshold = 4

// rotationGain maps the wrist's horizontal offset from frame center to a
// yaw angle in radians.
const rotationGain = 5.0

// fingerPairs lists the (tip, proximal joint) landmark pairs tested for
// extension. The thumb is compared against its own IP joint; the four
// fingers against their PIP joints.
var fingerPairs = [5][2]int{
	{detector.ThumbTip, detector.ThumbIP},
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Classification is the derived pose reading for one inference cycle.
// It is computed once per detection and immediately folded into the
// interaction state; nothing retains it across cycles.
type Classification struct {
	ExtendedFingers int
	OpenPalm        bool
	RotationHint    float64
}

// Classify derives a Classification from one hand's landmarks.
//
// A finger counts as extended when its tip lies farther from the wrist
// than its proximal joint. The hand is an open palm when at least
// OpenPalmThreshold fingers are extended, otherwise a fist. The rotation
// hint is always computed from the wrist's horizontal position,
// independent of the gesture class.
//
// Classify is pure: identical landmarks always produce an identical
// Classification.
func Classify(hand *detector.HandLandmarks) Classification {
	var c Classification

	for _, pair := range fingerPairs {
		if FingerExtended(hand, pair[0], pair[1]) {
			c.ExtendedFingers++
		}
	}

	c.OpenPalm = c.ExtendedFingers >= OpenPalmThreshold
	c.RotationHint = RotationHint(hand.WristX())

	return c
}

// FingerExtended reports whether the landmark at tip lies farther from the
// wrist than the landmark at joint.
func FingerExtended(hand *detector.HandLandmarks, tip, joint int) bool {
	return hand.DistanceFromWrist(tip) > hand.DistanceFromWrist(joint)
}

// RotationHint maps a normalized wrist x in [0,1] to a signed yaw angle in
// radians. It decreases monotonically from +2.5 at the left edge through 0
// at center to -2.5 at the right edge.
func RotationHint(wristX float64) float64 {
	return (0.5 - wristX) * rotationGain
}
