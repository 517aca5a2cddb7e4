package timeline

import (
	"encoding/json"
	"fmt"
)

// MaskShape is the closed set of mask geometries a clip can carry. The
// concrete types are a sum: code consuming a mask switches exhaustively on
// RectangleMask / EllipseMask / BezierMask.
type MaskShape interface {
	maskShape()
}

// RectangleMask is an axis-aligned rectangle in normalized frame
// coordinates (0..1 on both axes).
type RectangleMask struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type EllipseMask struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	RadiusX float64 `json:"radiusX"`
	RadiusY float64 `json:"radiusY"`
}

// BezierMask is a closed path of cubic bezier vertices.
type BezierMask struct {
	Points []BezierPoint `json:"points"`
}

type BezierPoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	InX  float64 `json:"inX"`
	InY  float64 `json:"inY"`
	OutX float64 `json:"outX"`
	OutY float64 `json:"outY"`
}

func (RectangleMask) maskShape() {}
func (EllipseMask) maskShape()   {}
func (BezierMask) maskShape()    {}

// Mask wraps a shape with the properties shared by all mask kinds.
type Mask struct {
	Shape    MaskShape `json:"-"`
	Inverted bool      `json:"inverted,omitempty"`
	Feather  float64   `json:"feather,omitempty"`
}

// ShapeKind names the concrete geometry, for display and serialization.
func (m Mask) ShapeKind() string {
	switch m.Shape.(type) {
	case RectangleMask:
		return "rectangle"
	case EllipseMask:
		return "ellipse"
	case BezierMask:
		return "bezier"
	}
	return "none"
}

type maskJSON struct {
	Kind     string          `json:"kind"`
	Shape    json.RawMessage `json:"shape"`
	Inverted bool            `json:"inverted,omitempty"`
	Feather  float64         `json:"feather,omitempty"`
}

func (m Mask) MarshalJSON() ([]byte, error) {
	shape, err := json.Marshal(m.Shape)
	if err != nil {
		return nil, err
	}
	return json.Marshal(maskJSON{Kind: m.ShapeKind(), Shape: shape, Inverted: m.Inverted, Feather: m.Feather})
}

func (m *Mask) UnmarshalJSON(data []byte) error {
	var raw maskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Inverted = raw.Inverted
	m.Feather = raw.Feather
	switch raw.Kind {
	case "rectangle":
		var s RectangleMask
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return err
		}
		m.Shape = s
	case "ellipse":
		var s EllipseMask
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return err
		}
		m.Shape = s
	case "bezier":
		var s BezierMask
		if err := json.Unmarshal(raw.Shape, &s); err != nil {
			return err
		}
		m.Shape = s
	default:
		return fmt.Errorf("unknown mask kind %q", raw.Kind)
	}
	return nil
}
