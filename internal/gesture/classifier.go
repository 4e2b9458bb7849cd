package gesture

import (
	"sync"

	"github.com/ayusman/skyhands/internal/detector"
)

// Classifier scores hands against registered gesture descriptions.
// It is safe for concurrent use: the tracker classifies on its own goroutine
// while descriptions may be replaced from the server.
type Classifier struct {
	mu    sync.RWMutex
	descs []Description
}

// NewClassifier returns a classifier with descs registered.
func NewClassifier(descs ...Description) *Classifier {
	c := &Classifier{}
	for _, d := range descs {
		c.Register(d)
	}
	return c
}

// Register adds d, replacing any description with the same name.
func (c *Classifier) Register(d Description) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.descs {
		if c.descs[i].Name == d.Name {
			c.descs[i] = d
			return
		}
	}
	c.descs = append(c.descs, d)
}

// Remove unregisters the description called name.
func (c *Classifier) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.descs {
		if c.descs[i].Name == name {
			c.descs = append(c.descs[:i], c.descs[i+1:]...)
			return
		}
	}
}

// Descriptions returns a copy of the registered descriptions.
func (c *Classifier) Descriptions() []Description {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Description, len(c.descs))
	copy(out, c.descs)
	return out
}

// SetConfidence changes the threshold of the description called name.
// It reports whether the description exists.
func (c *Classifier) SetConfidence(name string, confidence float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.descs {
		if c.descs[i].Name == name {
			c.descs[i].Confidence = confidence
			return true
		}
	}
	return false
}

// Classify returns the best scoring description that reaches its confidence
// threshold, or nil. Ties go to the earliest registered description.
func (c *Classifier) Classify(hand *detector.Hand) *detector.Gesture {
	curls, ok := EstimateCurls(hand)
	if !ok {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *detector.Gesture
	for i := range c.descs {
		d := &c.descs[i]
		score := d.Score(curls)
		if score < d.Confidence {
			continue
		}
		if best == nil || score > best.Confidence {
			best = &detector.Gesture{Name: d.Name, Confidence: score}
		}
	}
	return best
}
