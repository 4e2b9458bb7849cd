package gesture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// GrabGesture is the name of the built-in closed-hand gesture.
const GrabGesture = "grab"

// MaxScore is the score of a hand that matches every curl of a description
// with weight 1.
const MaxScore = 10.0

//go:embed definitions/grab.yaml
var builtinYAML []byte

// FingerCurl is one expected curl of a description. Weight is the score
// contribution when the finger matches, between 0 and 1.
type FingerCurl struct {
	Finger Finger
	Curl   Curl
	Weight float64
}

// Description defines a named gesture as a per-finger curl profile.
// Confidence is the minimum score, on a 0..MaxScore scale, needed to report
// the gesture.
type Description struct {
	Name       string
	Confidence float64
	Curls      []FingerCurl
}

// Score rates how well curls match d, from 0 to MaxScore.
// Fingers listed more than once count the best matching entry.
func (d *Description) Score(curls Curls) float64 {
	if len(d.Curls) == 0 {
		return 0
	}

	var best [numFingers]float64
	var listed [numFingers]bool
	for _, fc := range d.Curls {
		listed[fc.Finger] = true
		if curls[fc.Finger] == fc.Curl && fc.Weight > best[fc.Finger] {
			best[fc.Finger] = fc.Weight
		}
	}

	var sum float64
	var n int
	for f := range best {
		if listed[f] {
			sum += best[f]
			n++
		}
	}
	return sum / float64(n) * MaxScore
}

// Validate checks that d can be registered.
func (d *Description) Validate() error {
	if d.Name == "" {
		return errors.New("gesture name is required")
	}
	if len(d.Curls) == 0 {
		return fmt.Errorf("gesture %q: at least one finger curl is required", d.Name)
	}
	if d.Confidence < 0 || d.Confidence > MaxScore {
		return fmt.Errorf("gesture %q: confidence %.2f outside 0..%.0f", d.Name, d.Confidence, MaxScore)
	}
	for _, fc := range d.Curls {
		if fc.Finger < 0 || fc.Finger >= numFingers {
			return fmt.Errorf("gesture %q: %w: %d", d.Name, ErrUnknownFinger, int(fc.Finger))
		}
		if fc.Weight < 0 || fc.Weight > 1 {
			return fmt.Errorf("gesture %q: %s weight %.2f outside 0..1", d.Name, fc.Finger, fc.Weight)
		}
	}
	return nil
}

type yamlCurl struct {
	Finger string  `yaml:"finger" json:"finger"`
	Curl   string  `yaml:"curl" json:"curl"`
	Weight float64 `yaml:"weight" json:"weight"`
}

type yamlDescription struct {
	Name       string     `yaml:"name" json:"name"`
	Confidence float64    `yaml:"confidence" json:"confidence"`
	Curls      []yamlCurl `yaml:"curls" json:"curls"`
}

// MarshalYAML encodes d with finger and curl names.
func (d Description) MarshalYAML() (any, error) {
	return d.encode(), nil
}

func (d Description) encode() yamlDescription {
	out := yamlDescription{Name: d.Name, Confidence: d.Confidence}
	for _, fc := range d.Curls {
		out.Curls = append(out.Curls, yamlCurl{Finger: fc.Finger.String(), Curl: fc.Curl.String(), Weight: fc.Weight})
	}
	return out
}

// MarshalJSON encodes d with finger and curl names.
func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.encode())
}

// UnmarshalJSON decodes finger and curl names.
func (d *Description) UnmarshalJSON(data []byte) error {
	var raw yamlDescription
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.decode(raw)
}

// UnmarshalYAML decodes finger and curl names.
func (d *Description) UnmarshalYAML(node *yaml.Node) error {
	var raw yamlDescription
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.decode(raw)
}

func (d *Description) decode(raw yamlDescription) error {
	desc := Description{Name: raw.Name, Confidence: raw.Confidence}
	for _, c := range raw.Curls {
		finger, err := ParseFinger(c.Finger)
		if err != nil {
			return fmt.Errorf("gesture %q: %w", raw.Name, err)
		}
		curl, err := ParseCurl(c.Curl)
		if err != nil {
			return fmt.Errorf("gesture %q: %w", raw.Name, err)
		}
		desc.Curls = append(desc.Curls, FingerCurl{Finger: finger, Curl: curl, Weight: c.Weight})
	}
	*d = desc
	return nil
}

// LoadDescriptions reads a YAML list of gesture descriptions.
func LoadDescriptions(r io.Reader) ([]Description, error) {
	var descs []Description
	if err := yaml.NewDecoder(r).Decode(&descs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode gestures: %w", err)
	}

	for i := range descs {
		if err := descs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return descs, nil
}

// Builtin returns the descriptions shipped with the binary ("grab").
func Builtin() []Description {
	descs, err := LoadDescriptions(bytes.NewReader(builtinYAML))
	if err != nil {
		panic(fmt.Sprintf("builtin gestures: %v", err))
	}
	return descs
}
