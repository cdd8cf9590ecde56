package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invitation-canvas-editor/internal/scene"
)

const eps = 1e-9

func TestComputeCameraTransform(t *testing.T) {
	tests := []struct {
		name  string
		point *scene.ZoomPoint
		want  Transform
	}{
		{"nil point is identity", nil, IdentityTransform()},
		{
			"full canvas is identity",
			&scene.ZoomPoint{TargetRegion: scene.Rect{Width: scene.CanvasWidth, Height: scene.CanvasHeight}},
			Transform{Scale: 1},
		},
		{
			"half width doubles",
			&scene.ZoomPoint{TargetRegion: scene.Rect{X: 100, Y: 100, Width: 207, Height: 200}},
			Transform{Scale: 2, TranslateX: 7, TranslateY: 496},
		},
		{
			"zero width is guarded",
			&scene.ZoomPoint{TargetRegion: scene.Rect{X: 207, Y: 448, Width: 0, Height: 10}},
			Transform{Scale: 414, TranslateX: -0.5 * 414, TranslateY: -(453 - 448) * 414.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCameraTransform(tt.point)
			assert.InDelta(t, tt.want.Scale, got.Scale, eps)
			assert.InDelta(t, tt.want.TranslateX, got.TranslateX, eps)
			assert.InDelta(t, tt.want.TranslateY, got.TranslateY, eps)
		})
	}
}

func TestTransformMatrix_CentersRegion(t *testing.T) {
	region := scene.Rect{X: 100, Y: 100, Width: 207, Height: 200}
	m := ComputeCameraTransform(&scene.ZoomPoint{TargetRegion: region}).Matrix()

	got := m.TransformPoint(region.Center())
	assert.InDelta(t, scene.CanvasWidth/2, got.X, eps)
	assert.InDelta(t, scene.CanvasHeight/2, got.Y, eps)

	left := m.TransformPoint(scene.Point{X: region.X, Y: region.Center().Y})
	assert.InDelta(t, 0, left.X, eps, "region's left edge lands on the canvas edge")
}

func TestForSection(t *testing.T) {
	idx := 0
	s := scene.Section{ZoomConfig: scene.ZoomConfig{
		Points:             []scene.ZoomPoint{{TargetRegion: scene.Rect{X: 100, Y: 100, Width: 207, Height: 200}}},
		SelectedPointIndex: &idx,
	}}
	assert.InDelta(t, 2, ForSection(s).Scale, eps)

	s.ZoomConfig.SelectedPointIndex = nil
	assert.Equal(t, IdentityTransform(), ForSection(s))
}

func TestScreenCanvasInverse(t *testing.T) {
	viewports := []Viewport{
		{Zoom: 1},
		{Origin: scene.Point{X: 320, Y: 64}, Pan: scene.Point{X: -15, Y: 40}, Zoom: 0.75},
		{Origin: scene.Point{X: 10, Y: 10}, Pan: scene.Point{X: 200, Y: -90}, Zoom: 3.2},
	}
	points := []scene.Point{{X: 0, Y: 0}, {X: 207, Y: 448}, {X: -33.3, Y: 1200.5}}

	for _, v := range viewports {
		for _, p := range points {
			back := ScreenToCanvas(CanvasToScreen(p, v, EditingPadding), v, EditingPadding)
			assert.InDelta(t, p.X, back.X, 1e-6)
			assert.InDelta(t, p.Y, back.Y, 1e-6)
		}
	}
}

func TestScreenToCanvas_Formula(t *testing.T) {
	v := Viewport{Origin: scene.Point{X: 100, Y: 50}, Pan: scene.Point{X: 20, Y: 10}, Zoom: 2}
	got := ScreenToCanvas(scene.Point{X: 300, Y: 260}, v, EditingPadding)

	assert.InDelta(t, (300.0-100-20)/2-EditingPadding, got.X, eps)
	assert.InDelta(t, (260.0-50-10)/2-EditingPadding, got.Y, eps)
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, scene.MinZoom, ClampZoom(0.01))
	assert.Equal(t, scene.MaxZoom, ClampZoom(12))
	assert.Equal(t, 1.5, ClampZoom(1.5))
}

func TestZoomAt_KeepsAnchorFixed(t *testing.T) {
	v := Viewport{Origin: scene.Point{X: 40, Y: 20}, Zoom: 1}
	anchor := scene.Point{X: 250, Y: 400}
	before := ScreenToCanvas(anchor, v, EditingPadding)

	zoomed := ZoomAt(v, 1.5, anchor, EditingPadding)
	assert.InDelta(t, 1.5, zoomed.Zoom, eps)

	after := ScreenToCanvas(anchor, zoomed, EditingPadding)
	assert.InDelta(t, before.X, after.X, 1e-6)
	assert.InDelta(t, before.Y, after.Y, 1e-6)

	assert.Equal(t, scene.MaxZoom, ZoomAt(v, 100, anchor, EditingPadding).Zoom)
}

func TestPan_RequiresModifier(t *testing.T) {
	v := Viewport{Zoom: 1}

	got, moved := Pan(v, 10, 5, false)
	assert.False(t, moved)
	assert.Equal(t, v, got)

	got, moved = Pan(v, 10, 5, true)
	assert.True(t, moved)
	assert.Equal(t, scene.Point{X: 10, Y: 5}, got.Pan)
}

func TestTransition(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	to := Transform{Scale: 2, TranslateX: 7, TranslateY: 496}
	tr := NewTransition(IdentityTransform(), to, 0, start)

	assert.Equal(t, 800*time.Millisecond, tr.Duration)
	assert.Equal(t, IdentityTransform(), tr.At(start.Add(-time.Second)))
	assert.False(t, tr.Done(start.Add(400*time.Millisecond)))

	mid := tr.At(start.Add(400 * time.Millisecond))
	assert.InDelta(t, 1.5, mid.Scale, eps, "ease-in-out is symmetric at the midpoint")

	assert.Equal(t, to, tr.At(start.Add(time.Second)))
	assert.True(t, tr.Done(start.Add(800*time.Millisecond)))
}

func TestPointAlong(t *testing.T) {
	path := []scene.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	_, ok := PointAlong(nil, 0.5)
	assert.False(t, ok)

	p, ok := PointAlong(path, 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 10, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)

	p, _ = PointAlong(path, 0.75)
	assert.InDelta(t, 10, p.X, eps)
	assert.InDelta(t, 5, p.Y, eps)

	p, _ = PointAlong(path, 2)
	assert.Equal(t, path[2], p)

	assert.InDelta(t, 20, PathLength(path), eps)
}

func TestLayerPositionAlong(t *testing.T) {
	l := scene.Layer{X: 3, Y: 4, Width: 20, Height: 10, Scale: 1}
	assert.Equal(t, scene.Point{X: 3, Y: 4}, LayerPositionAlong(l, 0.5))

	l.MotionPath = &scene.MotionPathConfig{Points: []scene.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}}
	got := LayerPositionAlong(l, 0.5)
	assert.InDelta(t, 40, got.X, eps)
	assert.InDelta(t, -5, got.Y, eps)
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(5, -2).Multiply(Scale(3, 3))
	id := m.Multiply(m.Invert())
	assert.InDelta(t, 1, id.A, eps)
	assert.InDelta(t, 1, id.E, eps)
	assert.InDelta(t, 0, id.C, eps)
	assert.InDelta(t, 0, id.F, eps)
	assert.True(t, Identity().IsIdentity())
	assert.Equal(t, Identity(), Scale(0, 0).Invert())
	assert.Equal(t, "matrix(3, 0, 0, 3, 5, -2)", m.CSS())
}
