package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/tannenbaum/internal/detector"
)

// curlFinger folds one finger of an open palm so its tip ends up closer to
// the wrist than its proximal joint.
func curlFinger(h *detector.HandLandmarks, tip, joint int) {
	wrist := h.Points[detector.Wrist]
	j := h.Points[joint]
	// Place the tip halfway between wrist and joint.
	h.Points[tip] = detector.Point3D{
		X: wrist.X + (j.X-wrist.X)*0.5,
		Y: wrist.Y + (j.Y-wrist.Y)*0.5,
		Z: wrist.Z + (j.Z-wrist.Z)*0.5,
	}
}

func TestClassify_OpenPalm(t *testing.T) {
	h := detector.OpenPalmLandmarks()
	c := Classify(&h)

	if c.ExtendedFingers != 5 {
		t.Errorf("ExtendedFingers = %d, want 5", c.ExtendedFingers)
	}
	if !c.OpenPalm {
		t.Error("expected open palm for all fingers extended")
	}
}

func TestClassify_Fist(t *testing.T) {
	h := detector.FistLandmarks()
	c := Classify(&h)

	if c.ExtendedFingers != 0 {
		t.Errorf("ExtendedFingers = %d, want 0", c.ExtendedFingers)
	}
	if c.OpenPalm {
		t.Error("expected fist for no fingers extended")
	}
}

func TestClassify_Threshold(t *testing.T) {
	// Four extended fingers are still an open palm; three are a fist.
	fourUp := detector.OpenPalmLandmarks()
	curlFinger(&fourUp, detector.ThumbTip, detector.ThumbIP)

	c := Classify(&fourUp)
	if c.ExtendedFingers != 4 {
		t.Fatalf("ExtendedFingers = %d, want 4", c.ExtendedFingers)
	}
	if !c.OpenPalm {
		t.Error("four extended fingers should classify as open palm")
	}

	threeUp := fourUp
	curlFinger(&threeUp, detector.IndexTip, detector.IndexPIP)

	c = Classify(&threeUp)
	if c.ExtendedFingers != 3 {
		t.Fatalf("ExtendedFingers = %d, want 3", c.ExtendedFingers)
	}
	if c.OpenPalm {
		t.Error("three extended fingers should classify as fist")
	}
}

func TestFingerExtended_FlipsWithDistance(t *testing.T) {
	var h detector.HandLandmarks
	h.Points[detector.Wrist] = detector.Point3D{X: 0.5, Y: 0.8}
	h.Points[detector.IndexPIP] = detector.Point3D{X: 0.5, Y: 0.6}
	h.Points[detector.IndexTip] = detector.Point3D{X: 0.5, Y: 0.4}

	if !FingerExtended(&h, detector.IndexTip, detector.IndexPIP) {
		t.Error("tip farther than joint should be extended")
	}

	// Swap tip and joint positions: the predicate must flip.
	h.Points[detector.IndexTip], h.Points[detector.IndexPIP] =
		h.Points[detector.IndexPIP], h.Points[detector.IndexTip]

	if FingerExtended(&h, detector.IndexTip, detector.IndexPIP) {
		t.Error("tip closer than joint should not be extended")
	}
}

func TestRotationHint_Endpoints(t *testing.T) {
	cases := []struct {
		x    float64
		want float64
	}{
		{0.0, 2.5},
		{0.25, 1.25},
		{0.5, 0.0},
		{0.75, -1.25},
		{1.0, -2.5},
	}

	for _, tc := range cases {
		if got := RotationHint(tc.x); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("RotationHint(%.2f) = %f, want %f", tc.x, got, tc.want)
		}
	}
}

func TestRotationHint_MonotonicallyDecreasing(t *testing.T) {
	prev := RotationHint(0)
	for x := 0.01; x <= 1.0; x += 0.01 {
		cur := RotationHint(x)
		if cur >= prev {
			t.Fatalf("RotationHint not decreasing at x=%.2f: %f >= %f", x, cur, prev)
		}
		prev = cur
	}
}

func TestClassify_HintIndependentOfGesture(t *testing.T) {
	palm := detector.WithWristX(detector.OpenPalmLandmarks(), 0.3)
	fist := detector.WithWristX(detector.FistLandmarks(), 0.3)

	cp := Classify(&palm)
	cf := Classify(&fist)

	if math.Abs(cp.RotationHint-cf.RotationHint) > 1e-9 {
		t.Errorf("rotation hint should depend only on wrist x: palm %f, fist %f",
			cp.RotationHint, cf.RotationHint)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	h := detector.OpenPalmLandmarks()

	first := Classify(&h)
	for i := 0; i < 10; i++ {
		if got := Classify(&h); got != first {
			t.Fatalf("Classify not deterministic: %+v != %+v", got, first)
		}
	}
}
