package detector

import (
	"math"
	"testing"
)

func TestDistanceFromWrist(t *testing.T) {
	var h HandLandmarks
	h.Points[Wrist] = Point3D{X: 0, Y: 0, Z: 0}
	h.Points[IndexTip] = Point3D{X: 3, Y: 4, Z: 0}

	if got := h.DistanceFromWrist(IndexTip); math.Abs(got-5) > 1e-12 {
		t.Errorf("DistanceFromWrist(IndexTip) = %f, want 5", got)
	}

	if got := h.DistanceFromWrist(Wrist); got != 0 {
		t.Errorf("DistanceFromWrist(Wrist) = %f, want 0", got)
	}
}

func TestOpenPalmFixture_TipsBeyondJoints(t *testing.T) {
	h := OpenPalmLandmarks()

	pairs := [][2]int{
		{ThumbTip, ThumbIP},
		{IndexTip, IndexPIP},
		{MiddleTip, MiddlePIP},
		{RingTip, RingPIP},
		{PinkyTip, PinkyPIP},
	}

	for _, p := range pairs {
		tip := h.DistanceFromWrist(p[0])
		joint := h.DistanceFromWrist(p[1])
		if tip <= joint {
			t.Errorf("open palm: landmark %d dist %.3f not beyond joint %d dist %.3f", p[0], tip, p[1], joint)
		}
	}
}

func TestFistFixture_TipsInsideJoints(t *testing.T) {
	h := FistLandmarks()

	pairs := [][2]int{
		{ThumbTip, ThumbIP},
		{IndexTip, IndexPIP},
		{MiddleTip, MiddlePIP},
		{RingTip, RingPIP},
		{PinkyTip, PinkyPIP},
	}

	for _, p := range pairs {
		tip := h.DistanceFromWrist(p[0])
		joint := h.DistanceFromWrist(p[1])
		if tip >= joint {
			t.Errorf("fist: landmark %d dist %.3f not inside joint %d dist %.3f", p[0], tip, p[1], joint)
		}
	}
}

func TestWithWristX(t *testing.T) {
	h := OpenPalmLandmarks()
	moved := WithWristX(h, 0.1)

	if got := moved.WristX(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("WristX() = %f, want 0.1", got)
	}

	// Translation must preserve every wrist distance.
	for i := 0; i < NumLandmarks; i++ {
		before := h.DistanceFromWrist(i)
		after := moved.DistanceFromWrist(i)
		if math.Abs(before-after) > 1e-9 {
			t.Errorf("landmark %d: distance changed %f -> %f", i, before, after)
		}
	}
}
