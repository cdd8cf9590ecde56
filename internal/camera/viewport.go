package camera

import "invitation-canvas-editor/internal/scene"

// EditingPadding is the margin drawn around the canvas inside the editor stage.
const EditingPadding = 40.0

// Viewport is the editor's pan/zoom state. Origin is the stage's top-left corner in screen space.
type Viewport struct {
	Origin scene.Point
	Pan    scene.Point
	Zoom   float64
}

func ClampZoom(z float64) float64 {
	if z < scene.MinZoom {
		return scene.MinZoom
	}
	if z > scene.MaxZoom {
		return scene.MaxZoom
	}
	return z
}

// RenderMatrix maps canvas space to screen space.
func (v Viewport) RenderMatrix(padding float64) Matrix {
	z := ClampZoom(v.Zoom)
	return Translate(v.Origin.X+v.Pan.X, v.Origin.Y+v.Pan.Y).
		Multiply(Scale(z, z)).
		Multiply(Translate(padding, padding))
}

// ScreenToCanvas removes the viewport origin and pan, divides by zoom and removes the padding.
func ScreenToCanvas(screen scene.Point, v Viewport, padding float64) scene.Point {
	return v.RenderMatrix(padding).Invert().TransformPoint(screen)
}

func CanvasToScreen(canvas scene.Point, v Viewport, padding float64) scene.Point {
	return v.RenderMatrix(padding).TransformPoint(canvas)
}

// ZoomAt changes zoom by factor while keeping the canvas point under anchor fixed on screen.
func ZoomAt(v Viewport, factor float64, anchor scene.Point, padding float64) Viewport {
	if factor <= 0 {
		return v
	}
	c := ScreenToCanvas(anchor, v, padding)
	z := ClampZoom(ClampZoom(v.Zoom) * factor)

	out := v
	out.Zoom = z
	out.Pan = scene.Point{
		X: anchor.X - v.Origin.X - (c.X+padding)*z,
		Y: anchor.Y - v.Origin.Y - (c.Y+padding)*z,
	}
	return out
}

// Pan moves the viewport by a screen-space delta. It only applies while the
// pan-mode modifier is held; otherwise v is returned unchanged and false.
func Pan(v Viewport, dx, dy float64, modifierHeld bool) (Viewport, bool) {
	if !modifierHeld {
		return v, false
	}
	v.Pan.X += dx
	v.Pan.Y += dy
	return v, true
}
