package detector

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestHand_withCentroid(t *testing.T) {
	t.Run("appends mean of mediapipe points", func(t *testing.T) {
		hand := Hand{Landmarks: make([]Point3D, NumLandmarks)}
		for i := range hand.Landmarks {
			hand.Landmarks[i] = Point3D{X: float64(i), Y: 2 * float64(i), Z: 1}
		}

		got := hand.withCentroid()

		if len(got.Landmarks) != NumLandmarks+1 {
			t.Fatalf("expected %d landmarks, got %d", NumLandmarks+1, len(got.Landmarks))
		}
		c, ok := got.CentroidPoint()
		if !ok {
			t.Fatal("expected centroid to be present")
		}
		// mean of 0..20 is 10
		if math.Abs(c.X-10) > epsilon || math.Abs(c.Y-20) > epsilon || math.Abs(c.Z-1) > epsilon {
			t.Errorf("unexpected centroid %+v", c)
		}
		if len(hand.Landmarks) != NumLandmarks {
			t.Error("original hand must not be modified")
		}
	})

	t.Run("keeps an existing centroid", func(t *testing.T) {
		hand := Hand{Landmarks: make([]Point3D, NumLandmarks+1)}
		hand.Landmarks[Centroid] = Point3D{X: 0.25, Y: 0.75}

		got := hand.withCentroid()
		c, _ := got.CentroidPoint()
		if c.X != 0.25 || c.Y != 0.75 {
			t.Errorf("expected provided centroid to be kept, got %+v", c)
		}
	})

	t.Run("incomplete hands get no centroid", func(t *testing.T) {
		hand := Hand{Landmarks: make([]Point3D, 5)}
		if _, ok := hand.withCentroid().CentroidPoint(); ok {
			t.Error("expected no centroid for a partial hand")
		}
	})
}

func TestHand_GestureName(t *testing.T) {
	var nilHand *Hand
	if nilHand.GestureName() != "" {
		t.Error("nil hand should have no gesture")
	}

	hand := Hand{}
	if hand.GestureName() != "" {
		t.Error("hand without gesture should report empty name")
	}

	hand.Gesture = &Gesture{Name: "grab", Confidence: 9}
	if hand.GestureName() != "grab" {
		t.Errorf("expected grab, got %q", hand.GestureName())
	}
}

func TestHandFrame_Centroid(t *testing.T) {
	withCentroid := func(x, y float64) Hand {
		h := Hand{Landmarks: make([]Point3D, NumLandmarks+1)}
		h.Landmarks[Centroid] = Point3D{X: x, Y: y}
		return h
	}

	tests := []struct {
		name   string
		frame  HandFrame
		wantOK bool
		wantX  float64
	}{
		{name: "empty frame", frame: HandFrame{}},
		{name: "hand without landmarks", frame: HandFrame{Hands: []Hand{{}}}},
		{name: "first hand", frame: HandFrame{Hands: []Hand{withCentroid(0.1, 0.2)}}, wantOK: true, wantX: 0.1},
		{name: "second slot", frame: HandFrame{Hands: []Hand{{}, withCentroid(0.3, 0.4)}}, wantOK: true, wantX: 0.3},
		{name: "beyond slots", frame: HandFrame{Hands: []Hand{{}, {}, withCentroid(0.5, 0.5)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.frame.Centroid()
			if ok != tt.wantOK {
				t.Fatalf("Centroid() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && p.X != tt.wantX {
				t.Errorf("Centroid().X = %f, want %f", p.X, tt.wantX)
			}
		})
	}
}

func TestConfig_limit(t *testing.T) {
	hands := []Hand{
		{Score: 0.5, Handedness: "Left"},
		{Score: 0.9, Handedness: "Right"},
		{Score: 0.8, Handedness: "Left"},
	}

	tests := []struct {
		name      string
		config    Config
		wantCount int
		wantFirst string
	}{
		{name: "default keeps one confident hand", config: DefaultConfig(), wantCount: 1, wantFirst: "Right"},
		{name: "two hands", config: Config{MaxHands: 2, MinConfidence: 0.7}, wantCount: 2, wantFirst: "Right"},
		{name: "unbounded is capped at two slots", config: Config{MaxHands: 10}, wantCount: 2, wantFirst: "Left"},
		{name: "nothing confident enough", config: Config{MaxHands: 1, MinConfidence: 0.95}, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.limit(hands)
			if len(got) != tt.wantCount {
				t.Fatalf("limit() returned %d hands, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount > 0 && got[0].Handedness != tt.wantFirst {
				t.Errorf("first hand = %s, want %s", got[0].Handedness, tt.wantFirst)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %f, want 0.7", cfg.MinConfidence)
	}
}

func TestJSONHand_toHand(t *testing.T) {
	h := jsonHand{
		Points:     []Point3D{{X: 0.1, Y: 0.2, Z: 0.3}},
		Handedness: "Left",
		Score:      0.8,
	}

	got := h.toHand()
	if len(got.Landmarks) != 1 || got.Landmarks[0].Y != 0.2 {
		t.Errorf("unexpected landmarks %+v", got.Landmarks)
	}
	if got.Handedness != "Left" || got.Score != 0.8 {
		t.Errorf("unexpected metadata %+v", got)
	}
	if got.Gesture != nil {
		t.Error("service output carries no gesture")
	}
}
