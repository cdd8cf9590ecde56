package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	apperr "invitation-canvas-editor/internal/errors"

	"github.com/google/uuid"
)

const (
	MinZIndex = 0
	MaxZIndex = 100
)

// Layer is a single element on a canvas. Config holds exactly the block its Type requires.
type Layer struct {
	ID         string            `json:"id"`
	Type       LayerType         `json:"type"`
	Name       string            `json:"name"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Rotation   float64           `json:"rotation"`
	Scale      float64           `json:"scale"`
	Opacity    float64           `json:"opacity"`
	ZIndex     int               `json:"zIndex"`
	IsLocked   bool              `json:"isLocked"`
	IsVisible  bool              `json:"isVisible"`
	Content    string            `json:"content,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Animation  string            `json:"animation,omitempty"`
	MotionPath *MotionPathConfig `json:"motionPathConfig,omitempty"`
	Config     Config            `json:"-"`
}

type layerAlias Layer

// NewDefaultLayer builds a renderable layer of type t centered on the canvas.
func NewDefaultLayer(t LayerType) (Layer, error) {
	entry, ok := catalog[t]
	if !ok {
		return Layer{}, apperr.Invalid("type", fmt.Sprintf("unknown layer type %q", t))
	}

	l := Layer{
		ID:        uuid.NewString(),
		Type:      t,
		Name:      entry.name,
		X:         (CanvasWidth - entry.width) / 2,
		Y:         (CanvasHeight - entry.height) / 2,
		Width:     entry.width,
		Height:    entry.height,
		Scale:     1,
		Opacity:   1,
		ZIndex:    1,
		IsVisible: true,
	}
	if entry.newConfig != nil {
		l.Config = entry.newConfig()
	}
	if t == LayerText || t == LayerHeading || t == LayerQuote {
		l.Content = entry.name
	}
	return l, nil
}

// NewLayer builds a default layer of type t and deep-merges overrides onto it.
func NewLayer(t LayerType, overrides Patch) (Layer, error) {
	l, err := NewDefaultLayer(t)
	if err != nil {
		return Layer{}, err
	}
	if len(overrides) == 0 {
		return l, nil
	}
	return l.Apply(overrides)
}

func (l Layer) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(layerAlias(l))
	if err != nil {
		return nil, err
	}
	if l.Config == nil {
		return base, nil
	}
	cfg, err := json.Marshal(l.Config)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	buf.WriteString(`,"`)
	buf.WriteString(l.Config.ConfigKey())
	buf.WriteString(`":`)
	buf.Write(cfg)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes leniently: unknown types keep no config and a malformed
// or missing config block falls back to the type's default.
func (l *Layer) UnmarshalJSON(data []byte) error {
	return l.decode(data, false)
}

// DecodeLayerStrict decodes a layer and rejects unknown types or malformed config.
func DecodeLayerStrict(data []byte) (Layer, error) {
	var l Layer
	if err := l.decode(data, true); err != nil {
		return Layer{}, err
	}
	return l, nil
}

func (l *Layer) decode(data []byte, strict bool) error {
	a := layerAlias{Scale: 1, Opacity: 1, IsVisible: true}
	if err := json.Unmarshal(data, &a); err != nil {
		if strict {
			return apperr.Invalid("layer", err.Error())
		}
		return err
	}
	*l = Layer(a)
	l.Config = nil
	l.normalize()

	entry, known := catalog[l.Type]
	if !known {
		if strict {
			return apperr.Invalid("type", fmt.Sprintf("unknown layer type %q", l.Type))
		}
		return nil
	}
	if entry.newConfig != nil {
		cfg := entry.newConfig()
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		if blob, ok := fields[cfg.ConfigKey()]; ok && !bytes.Equal(bytes.TrimSpace(blob), []byte("null")) {
			if err := json.Unmarshal(blob, cfg); err != nil {
				if strict {
					return apperr.Invalid(cfg.ConfigKey(), err.Error())
				}
				cfg = entry.newConfig()
			}
		}
		l.Config = cfg
	}

	if strict {
		return l.validate()
	}
	return nil
}

func (l *Layer) normalize() {
	l.ZIndex = ClampZIndex(l.ZIndex)
	l.Rotation = NormalizeRotation(l.Rotation)
}

func (l *Layer) validate() error {
	switch {
	case l.ID == "":
		return apperr.Invalid("id", "layer id is required")
	case l.Width < 0 || l.Height < 0:
		return apperr.Invalid("size", "width and height must not be negative")
	case l.Opacity < 0 || l.Opacity > 1:
		return apperr.Invalid("opacity", "must be between 0 and 1")
	case l.Scale <= 0:
		return apperr.Invalid("scale", "must be positive")
	}
	return nil
}

// ClampZIndex applies the [0,100] paint-order policy used on every mutation path.
func ClampZIndex(z int) int {
	if z < MinZIndex {
		return MinZIndex
	}
	if z > MaxZIndex {
		return MaxZIndex
	}
	return z
}

// NormalizeRotation wraps degrees into [-180, 180].
func NormalizeRotation(deg float64) float64 {
	if deg >= -180 && deg <= 180 {
		return deg
	}
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}

// Bounds is the unrotated layer box in canvas space.
func (l Layer) Bounds() Rect {
	return Rect{X: l.X, Y: l.Y, Width: l.Width * l.Scale, Height: l.Height * l.Scale}
}
