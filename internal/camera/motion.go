package camera

import (
	"math"

	"invitation-canvas-editor/internal/scene"
)

func distance(a, b scene.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PathLength is the polyline length of a motion path.
func PathLength(points []scene.Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += distance(points[i-1], points[i])
	}
	return total
}

// PointAlong returns the point at fraction t of the path's arc length.
// An empty path reports false so callers can skip the animation.
func PointAlong(points []scene.Point, t float64) (scene.Point, bool) {
	switch len(points) {
	case 0:
		return scene.Point{}, false
	case 1:
		return points[0], true
	}

	t = math.Max(0, math.Min(1, t))
	total := PathLength(points)
	if total == 0 {
		return points[0], true
	}

	target := t * total
	walked := 0.0
	for i := 1; i < len(points); i++ {
		seg := distance(points[i-1], points[i])
		if walked+seg >= target {
			if seg == 0 {
				return points[i], true
			}
			f := (target - walked) / seg
			return scene.Point{
				X: lerp(points[i-1].X, points[i].X, f),
				Y: lerp(points[i-1].Y, points[i].Y, f),
			}, true
		}
		walked += seg
	}
	return points[len(points)-1], true
}

// LayerPositionAlong places a layer so its center sits on its motion path at fraction t.
// Layers without a path keep their position.
func LayerPositionAlong(l scene.Layer, t float64) scene.Point {
	if l.MotionPath == nil {
		return scene.Point{X: l.X, Y: l.Y}
	}
	p, ok := PointAlong(l.MotionPath.Points, t)
	if !ok {
		return scene.Point{X: l.X, Y: l.Y}
	}
	b := l.Bounds()
	return scene.Point{X: p.X - b.Width/2, Y: p.Y - b.Height/2}
}
