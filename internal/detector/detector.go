package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame captured at the given timestamp and
	// returns the landmarks of up to MaxHands detected hands, or an empty
	// slice when no hand is visible. Callers must not issue overlapping
	// calls and must supply monotonically non-decreasing timestamps.
	Detect(frame *gocv.Mat, timestampMs int64) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	// The interaction pipeline only ever consumes the first hand.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
