package camera

import (
	"time"

	"invitation-canvas-editor/internal/scene"
)

// MinRegionWidth guards the zoom-point scale against division by zero.
const MinRegionWidth = 1.0

// Transform is the camera move applied to a section around the canvas center.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// ComputeCameraTransform returns the move that fills the canvas width with the
// point's target region and centers it. A nil point yields identity.
func ComputeCameraTransform(p *scene.ZoomPoint) Transform {
	if p == nil {
		return IdentityTransform()
	}

	region := p.TargetRegion
	if region.Width < MinRegionWidth {
		region.Width = MinRegionWidth
	}
	scale := scene.CanvasWidth / region.Width
	center := region.Center()
	return Transform{
		Scale:      scale,
		TranslateX: -(center.X - scene.CanvasWidth/2) * scale,
		TranslateY: -(center.Y - scene.CanvasHeight/2) * scale,
	}
}

// ForSection returns the camera for the section's selected zoom point.
func ForSection(s scene.Section) Transform {
	p, ok := s.ZoomConfig.Selected()
	if !ok {
		return IdentityTransform()
	}
	return ComputeCameraTransform(&p)
}

// Matrix expresses t in canvas space: scale about the canvas center, then translate.
func (t Transform) Matrix() Matrix {
	cx, cy := scene.CanvasWidth/2, scene.CanvasHeight/2
	return Translate(cx+t.TranslateX, cy+t.TranslateY).
		Multiply(Scale(t.Scale, t.Scale)).
		Multiply(Translate(-cx, -cy))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutCubic maps linear progress in [0,1] onto an ease-in-out curve.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

func Interpolate(from, to Transform, progress float64) Transform {
	return Transform{
		Scale:      lerp(from.Scale, to.Scale, progress),
		TranslateX: lerp(from.TranslateX, to.TranslateX, progress),
		TranslateY: lerp(from.TranslateY, to.TranslateY, progress),
	}
}

// Transition is a timed, eased move between two camera states.
type Transition struct {
	From     Transform
	To       Transform
	Start    time.Time
	Duration time.Duration
}

// NewTransition starts a move at start lasting durationMs (default 800ms when not positive).
func NewTransition(from, to Transform, durationMs int, start time.Time) Transition {
	if durationMs <= 0 {
		durationMs = scene.DefaultTransitionDuration
	}
	return Transition{
		From:     from,
		To:       to,
		Start:    start,
		Duration: time.Duration(durationMs) * time.Millisecond,
	}
}

func (tr Transition) progress(now time.Time) float64 {
	if tr.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(tr.Start)) / float64(tr.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (tr Transition) At(now time.Time) Transform {
	p := tr.progress(now)
	if p >= 1 {
		return tr.To
	}
	return Interpolate(tr.From, tr.To, EaseInOutCubic(p))
}

func (tr Transition) Done(now time.Time) bool {
	return tr.progress(now) >= 1
}
