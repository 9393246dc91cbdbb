// Package session owns one interaction session: the camera, the landmark
// detector, the inference loop, and the animation loop that drives the
// scene. Everything acquired by Start is released by Stop; nothing
// outlives the session.
package session

import (
	"log"
	"sync"

	"github.com/ayusman/tannenbaum/internal/capture"
	"github.com/ayusman/tannenbaum/internal/detector"
	"github.com/ayusman/tannenbaum/internal/interaction"
	"github.com/ayusman/tannenbaum/internal/scene"
)

// Pipeline timing constants.
const (
	// IdleFPS is the inference rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the inference rate during active interaction.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last motion the pipeline drops
	// back to the idle rate.
	IdleTimeoutMs = 2000
)

// Status strings surfaced to the UI.
const (
	StatusStopped  = "stopped"
	StatusRunning  = "tracking hands"
	StatusNoCamera = "camera unavailable"
	StatusNoModel  = "hand tracking unavailable"
	StatusPaused   = "detection paused"
)

// Config holds configuration options for the session.
type Config struct {
	CameraID     int
	MotionThresh float64

	// Camera and Detector override the defaults, for tests. A nil
	// Detector with no MediaPipe service available degrades to ambient
	// free-spin mode rather than failing the session.
	Camera   capture.Camera
	Detector detector.Detector
}

// Session orchestrates the gesture pipeline and the animation loop.
//
// Two loops run at independent cadences: the inference loop (throttled by
// the motion gate) reads frames, classifies the hand, and publishes the
// interaction state; the animation loop advances the scene every frame
// from whatever state was last published. They share only the single-slot
// cell, last write wins. Only one inference call is ever in flight: the
// loop does not request a new capture until the previous detect resolves.
type Session struct {
	config Config
	camera capture.Camera
	motion *capture.MotionDetector
	det    detector.Detector
	cell   *interaction.Cell
	scene  *scene.Scene

	mu        sync.RWMutex
	enabled   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	inferring bool
	status    string
	lastLabel string
	onLabel   func(string)
}

// New creates a session driving the given scene.
func New(config Config, sc *scene.Scene) *Session {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	s := &Session{
		config:    config,
		motion:    capture.NewMotionDetector(motionThreshold),
		cell:      interaction.NewCell(),
		scene:     sc,
		enabled:   true,
		status:    StatusStopped,
		lastLabel: interaction.Reduce(nil).Label(),
	}

	if config.Camera != nil {
		s.camera = config.Camera
	} else {
		s.camera = capture.NewCamera(config.CameraID)
	}

	if config.Detector != nil {
		s.det = config.Detector
	} else if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		s.det = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), running in ambient mode", err)
	}

	return s
}

// SetEnabled pauses or resumes gesture detection. While paused the scene
// keeps animating in free-spin mode.
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	if s.inferring {
		if enabled {
			s.status = StatusRunning
		} else {
			s.status = StatusPaused
		}
	}
	s.mu.Unlock()

	if !enabled {
		s.publish(interaction.Reduce(nil))
	}
}

// IsEnabled returns whether gesture detection is currently enabled.
func (s *Session) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Status returns the user-facing session status.
func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// GestureLabel returns the label of the most recent interaction state.
func (s *Session) GestureLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLabel
}

// OnGestureLabel registers a callback invoked whenever the gesture label
// changes.
func (s *Session) OnGestureLabel(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLabel = fn
}

// State returns the most recently published interaction state.
func (s *Session) State() interaction.State {
	return s.cell.Current()
}

// Scene returns the scene this session drives.
func (s *Session) Scene() *scene.Scene {
	return s.scene
}

// Camera returns the camera instance.
func (s *Session) Camera() capture.Camera {
	return s.camera
}

// Start begins the animation loop and, when the camera and detector are
// available, the inference loop. A camera or model failure never stops
// the visuals: the scene animates in ambient free-spin mode and the
// failure is surfaced through Status. Calling Start again after a
// degraded start retries the interaction side.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh == nil {
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go s.runAnimation()
	}

	if s.inferring {
		return nil
	}

	if s.det == nil {
		s.status = StatusNoModel
		return nil
	}

	if err := s.camera.Open(); err != nil {
		log.Printf("Camera open failed: %v", err)
		s.status = StatusNoCamera
		return nil
	}

	s.camera.SetFPS(IdleFPS)
	s.status = StatusRunning
	s.inferring = true
	s.wg.Add(1)
	go s.runInference()

	log.Println("Interaction session started")
	return nil
}

// Stop halts both loops and releases the camera, the motion gate, and the
// detector.
func (s *Session) Stop() {
	s.mu.Lock()

	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}

	close(s.stopCh)
	s.stopCh = nil
	s.inferring = false
	s.mu.Unlock()

	s.wg.Wait()

	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	s.motion.Close()

	if s.det != nil {
		if err := s.det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	s.mu.Lock()
	s.status = StatusStopped
	s.mu.Unlock()

	log.Println("Interaction session stopped")
}

// publish stores a new interaction state and propagates its label.
func (s *Session) publish(st interaction.State) {
	s.cell.Publish(st)

	s.mu.Lock()
	changed := st.Label() != s.lastLabel
	s.lastLabel = st.Label()
	fn := s.onLabel
	s.mu.Unlock()

	if changed && fn != nil {
		fn(st.Label())
	}
}
