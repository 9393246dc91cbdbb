package session

import (
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/tannenbaum/internal/capture"
	"github.com/ayusman/tannenbaum/internal/detector"
	"github.com/ayusman/tannenbaum/internal/scene"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// motionFrames returns a looping dark/bright frame pair so the motion gate
// sees constant change and keeps the pipeline in active mode.
func motionFrames(t *testing.T) []*gocv.Mat {
	t.Helper()
	dark := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 64, 64, gocv.MatTypeCV8UC3)
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 64, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		dark.Close()
		bright.Close()
	})
	return []*gocv.Mat{&dark, &bright}
}

// staticFrames returns a single looping frame so the motion gate never
// sees change and the pipeline stays at the idle cadence.
func staticFrames(t *testing.T) []*gocv.Mat {
	t.Helper()
	dark := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 64, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		dark.Close()
	})
	return []*gocv.Mat{&dark}
}

func testScene() *scene.Scene {
	p := scene.DefaultParams()
	p.Particles = 200
	p.Ornaments = 8
	return scene.Build(p)
}

func TestSession_OpenPalmDrivesExplosion(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool {
		st := s.State()
		return !st.FreeSpin && st.ExplosionTarget == 1.0
	}, "open palm to publish explosion target 1")

	if got := s.GestureLabel(); got != "open palm" {
		t.Errorf("GestureLabel() = %q, want %q", got, "open palm")
	}
}

func TestSession_StillHandKeepsGesture(t *testing.T) {
	cam := capture.NewMockCamera(staticFrames(t), true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	// A motionless frame stream never leaves the idle cadence, but the
	// hand must still be detected and its state published.
	waitFor(t, 3*time.Second, func() bool {
		st := s.State()
		return !st.FreeSpin && st.ExplosionTarget == 1.0
	}, "motionless open palm to publish explosion target 1")

	// Hold well past the idle timeout: the state must not decay to the
	// no-hand sentinel while the hand stays in frame.
	time.Sleep(time.Duration(IdleTimeoutMs+500) * time.Millisecond)

	if st := s.State(); st.FreeSpin || st.ExplosionTarget != 1.0 {
		t.Errorf("state after holding still = %+v, want open palm held", st)
	}
	if got := s.GestureLabel(); got != "open palm" {
		t.Errorf("GestureLabel() = %q, want %q", got, "open palm")
	}
	if det.Calls() == 0 {
		t.Error("detector was never called at the idle cadence")
	}
}

func TestSession_NoHandPublishesSentinel(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector() // no hands configured

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool {
		return det.Calls() > 0
	}, "at least one inference cycle")

	st := s.State()
	if !st.FreeSpin || st.ExplosionTarget != 0 {
		t.Errorf("state = %+v, want no-hand sentinel", st)
	}
}

func TestSession_DetectErrorTreatedAsNoHand(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool {
		return s.State().ExplosionTarget == 1.0
	}, "hand to register before injecting the failure")

	det.SetError(errors.New("inference backend crashed"))

	waitFor(t, 3*time.Second, func() bool {
		return s.State().FreeSpin
	}, "detect failure to degrade to the no-hand sentinel")
}

func TestSession_CameraFailureDegradesToAmbient(t *testing.T) {
	cam := capture.NewMockCamera(nil, false)
	cam.FailOpenWith(errors.New("permission denied"))

	s := New(Config{Camera: cam, Detector: detector.NewMockDetector()}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() should not fail on camera errors, got %v", err)
	}
	defer s.Stop()

	if got := s.Status(); got != StatusNoCamera {
		t.Errorf("Status() = %q, want %q", got, StatusNoCamera)
	}

	// The animation loop must keep running: the pivot free-spins.
	before := s.Scene().PivotYaw()
	waitFor(t, 2*time.Second, func() bool {
		return s.Scene().PivotYaw() > before
	}, "ambient animation to advance without a camera")
}

func TestSession_PauseResumesSentinel(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	waitFor(t, 3*time.Second, func() bool {
		return s.State().ExplosionTarget == 1.0
	}, "hand to register before pausing")

	s.SetEnabled(false)

	if st := s.State(); !st.FreeSpin {
		t.Errorf("pausing should publish the no-hand sentinel, got %+v", st)
	}
	if got := s.Status(); got != StatusPaused {
		t.Errorf("Status() = %q, want %q", got, StatusPaused)
	}
}

func TestSession_StopReleasesResources(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector()

	s := New(Config{Camera: cam, Detector: det}, testScene())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitFor(t, 3*time.Second, func() bool {
		return cam.Reads() > 0
	}, "the inference loop to read a frame")

	s.Stop()

	if cam.IsOpen() {
		t.Error("camera should be closed after Stop")
	}
	if got := s.Status(); got != StatusStopped {
		t.Errorf("Status() = %q, want %q", got, StatusStopped)
	}

	// Stop is idempotent.
	s.Stop()
}

func TestSession_LabelCallback(t *testing.T) {
	cam := capture.NewMockCamera(motionFrames(t), true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	s := New(Config{Camera: cam, Detector: det}, testScene())

	labels := make(chan string, 16)
	s.OnGestureLabel(func(label string) {
		labels <- label
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	select {
	case got := <-labels:
		if got != "open palm" {
			t.Errorf("label callback got %q, want %q", got, "open palm")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("label callback never fired")
	}
}
