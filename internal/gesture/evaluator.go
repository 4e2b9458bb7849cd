package gesture

import "github.com/ayusman/skyhands/internal/detector"

// IsGrabbing reports whether any hand slot in frame carries the gesture
// called name. Missing hands or gesture data simply yield false.
func IsGrabbing(frame detector.HandFrame, name string) bool {
	if name == "" {
		return false
	}
	for _, h := range frame.Slots() {
		if h.GestureName() == name {
			return true
		}
	}
	return false
}
