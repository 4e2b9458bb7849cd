package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Opener is implemented by detectors with an expensive start-up step.
// The tracker calls Open from Start so that start-up failures surface there
// rather than on the first frame.
type Opener interface {
	Open() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the configuration used by the toy: one hand,
// detection confidence 0.7.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}

// limit drops hands below the detection threshold and caps the result at
// MaxHands (never more than MaxHandSlots).
func (c Config) limit(hands []Hand) []Hand {
	maxHands := c.MaxHands
	if maxHands <= 0 || maxHands > MaxHandSlots {
		maxHands = MaxHandSlots
	}

	kept := make([]Hand, 0, len(hands))
	for _, h := range hands {
		if h.Score < c.MinConfidence {
			continue
		}
		kept = append(kept, h)
		if len(kept) == maxHands {
			break
		}
	}
	return kept
}

// unavailable is a Detector whose Open always fails, standing in for a
// detector that could not be constructed.
type unavailable struct{ err error }

// Unavailable returns a detector that reports err from Open and never
// detects anything. The tracker then fails to start with err.
func Unavailable(err error) Detector {
	return unavailable{err: err}
}

func (u unavailable) Open() error                      { return u.err }
func (u unavailable) Detect(*gocv.Mat) ([]Hand, error) { return nil, u.err }
func (u unavailable) Close() error                     { return nil }
