package session

import (
	"log"
	"time"

	"github.com/ayusman/tannenbaum/internal/gesture"
	"github.com/ayusman/tannenbaum/internal/interaction"
	"github.com/ayusman/tannenbaum/internal/scene"
)

// runAnimation advances the scene at the nominal animation rate, reading
// whatever interaction state was last published. A frame that lands
// between two inference updates simply sees the previous pair.
func (s *Session) runAnimation() {
	defer s.wg.Done()

	s.mu.RLock()
	stopCh := s.stopCh
	s.mu.RUnlock()

	ticker := time.NewTicker(time.Second / scene.AnimationHz)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.scene.Advance(s.cell.Current())
		}
	}
}

// runInference is the capture-classify-reduce loop. The motion gate only
// chooses the cadence: detection runs on every tick at either rate, so a
// hand held perfectly still keeps its published state. Detect errors are
// treated as "no hand" for that cycle; frame read errors leave the last
// published state alone.
func (s *Session) runInference() {
	defer s.wg.Done()

	s.mu.RLock()
	stopCh := s.stopCh
	s.mu.RUnlock()

	activeMode := false
	lastMotionTime := time.Now()
	lastTimestamp := int64(0)

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !s.IsEnabled() {
				continue
			}

			frame, err := s.camera.ReadFrame()
			if err != nil {
				// Camera not ready or transient read failure; the cell
				// keeps its last published value.
				continue
			}

			motionDetected, _ := s.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					s.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					s.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			ts := time.Now().UnixMilli()
			if ts <= lastTimestamp {
				ts = lastTimestamp + 1
			}
			lastTimestamp = ts

			hands, err := s.det.Detect(frame, ts)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				s.publish(interaction.Reduce(nil))
				continue
			}

			if len(hands) == 0 {
				s.publish(interaction.Reduce(nil))
				continue
			}

			cls := gesture.Classify(&hands[0])
			s.publish(interaction.Reduce(&cls))
		}
	}
}
