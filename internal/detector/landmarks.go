// Package detector provides hand detection interfaces, landmark types and the
// asynchronous hand tracker that feeds the scene.
package detector

import "time"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbMCP  = 2
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexDIP  = 7
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12
	RingMCP   = 13
	RingPIP   = 14
	RingDIP   = 15
	RingTip   = 16
	PinkyMCP  = 17
	PinkyPIP  = 18
	PinkyDIP  = 19
	PinkyTip  = 20

	// NumLandmarks is the number of points MediaPipe reports per hand.
	NumLandmarks = 21

	// Centroid is the index of the hand centre. The tracker appends it after
	// the MediaPipe points, so a complete hand carries NumLandmarks+1 points.
	Centroid = 21
)

// MaxHandSlots is the number of hand slots a HandFrame can carry.
const MaxHandSlots = 2

// Point3D represents a landmark in capture-normalised coordinates:
// x and y in [0,1] from the top-left corner, z relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Gesture is a named hand pose classified from the landmarks.
type Gesture struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Hand is one detected hand. Gesture is nil when no registered gesture
// reached its confidence threshold.
type Hand struct {
	Landmarks  []Point3D `json:"landmarks"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
	Gesture    *Gesture  `json:"gesture,omitempty"`
}

// CentroidPoint returns landmark 21, or false when the hand carries no
// centroid.
func (h *Hand) CentroidPoint() (Point3D, bool) {
	if h == nil || len(h.Landmarks) <= Centroid {
		return Point3D{}, false
	}
	return h.Landmarks[Centroid], true
}

// GestureName returns the classified gesture name, or "" when none.
func (h *Hand) GestureName() string {
	if h == nil || h.Gesture == nil {
		return ""
	}
	return h.Gesture.Name
}

// withCentroid returns a copy of h whose landmark 21 is the mean of the
// MediaPipe points. Hands that already carry a centroid, or that are missing
// points, are returned unchanged.
func (h Hand) withCentroid() Hand {
	if len(h.Landmarks) != NumLandmarks {
		return h
	}

	var c Point3D
	for _, p := range h.Landmarks {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	n := float64(NumLandmarks)
	c.X /= n
	c.Y /= n
	c.Z /= n

	points := make([]Point3D, 0, NumLandmarks+1)
	points = append(points, h.Landmarks...)
	h.Landmarks = append(points, c)
	return h
}

// HandFrame is the tracker output for one completed detection.
type HandFrame struct {
	Hands []Hand    `json:"hands"`
	Seq   uint64    `json:"seq"`
	At    time.Time `json:"at"`
}

// Slots returns at most MaxHandSlots hands.
func (f HandFrame) Slots() []Hand {
	if len(f.Hands) > MaxHandSlots {
		return f.Hands[:MaxHandSlots]
	}
	return f.Hands
}

// Centroid returns the centroid of the first hand that carries one.
func (f HandFrame) Centroid() (Point3D, bool) {
	for i := range f.Slots() {
		if p, ok := f.Hands[i].CentroidPoint(); ok {
			return p, true
		}
	}
	return Point3D{}, false
}
