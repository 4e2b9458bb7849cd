// Package gesture classifies hand poses from per-finger curl and decides
// whether a named gesture is active in a tracked frame.
package gesture

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ayusman/skyhands/internal/detector"
)

// Finger identifies one of the five fingers.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	numFingers
)

// Fingers lists all fingers in landmark order.
var Fingers = [numFingers]Finger{Thumb, Index, Middle, Ring, Pinky}

var fingerNames = [numFingers]string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// ErrUnknownFinger is returned when parsing an unrecognised finger name.
var ErrUnknownFinger = errors.New("unknown finger")

// ErrUnknownCurl is returned when parsing an unrecognised curl name.
var ErrUnknownCurl = errors.New("unknown curl")

func (f Finger) String() string {
	if f < 0 || f >= numFingers {
		return fmt.Sprintf("Finger(%d)", int(f))
	}
	return fingerNames[f]
}

// ParseFinger parses a finger name case-insensitively.
func ParseFinger(s string) (Finger, error) {
	for i, name := range fingerNames {
		if strings.EqualFold(s, name) {
			return Finger(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFinger, s)
}

// joints returns the landmark indices used to measure the finger's curl:
// the base joint, the middle joint and the tip.
func (f Finger) joints() (base, mid, tip int) {
	if f == Thumb {
		return detector.ThumbCMC, detector.ThumbMCP, detector.ThumbTip
	}
	mcp := detector.IndexMCP + 4*(int(f)-int(Index))
	return mcp, mcp + 1, mcp + 3
}

// Curl is how far a finger is bent.
type Curl int

const (
	NoCurl Curl = iota
	HalfCurl
	FullCurl
)

var curlNames = [...]string{"NoCurl", "HalfCurl", "FullCurl"}

func (c Curl) String() string {
	if c < 0 || int(c) >= len(curlNames) {
		return fmt.Sprintf("Curl(%d)", int(c))
	}
	return curlNames[c]
}

// ParseCurl parses a curl name case-insensitively.
func ParseCurl(s string) (Curl, error) {
	for i, name := range curlNames {
		if strings.EqualFold(s, name) {
			return Curl(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurl, s)
}

// Joint angle limits in degrees. A finger whose middle-joint angle exceeds
// NoCurlLimit is straight; above HalfCurlLimit it is half curled.
const (
	NoCurlLimit   = 130.0
	HalfCurlLimit = 60.0
)

// Curls holds the estimated curl of every finger.
type Curls [numFingers]Curl

// EstimateCurls measures the curl of each finger from the angle at its middle
// joint. ok is false when the hand lacks the MediaPipe landmarks.
func EstimateCurls(hand *detector.Hand) (curls Curls, ok bool) {
	if hand == nil || len(hand.Landmarks) < detector.NumLandmarks {
		return curls, false
	}

	for _, f := range Fingers {
		base, mid, tip := f.joints()
		curls[f] = curlFromAngle(jointAngle(hand.Landmarks[base], hand.Landmarks[mid], hand.Landmarks[tip]))
	}
	return curls, true
}

// jointAngle returns the angle at mid, in degrees, between mid->start and
// mid->end, using the law of cosines.
func jointAngle(start, mid, end detector.Point3D) float64 {
	startMid := dist(start, mid)
	midEnd := dist(mid, end)
	startEnd := dist(start, end)
	if startMid == 0 || midEnd == 0 {
		return 180
	}

	cos := (midEnd*midEnd + startMid*startMid - startEnd*startEnd) / (2 * midEnd * startMid)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func curlFromAngle(angle float64) Curl {
	switch {
	case angle > NoCurlLimit:
		return NoCurl
	case angle > HalfCurlLimit:
		return HalfCurl
	default:
		return FullCurl
	}
}

func dist(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
