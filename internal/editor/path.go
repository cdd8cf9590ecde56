package editor

import (
	"fmt"

	apperr "invitation-canvas-editor/internal/errors"
	"invitation-canvas-editor/internal/scene"
)

// BeginPathEdit selects the layer and enters motion-path editing for it.
func (s *Session) BeginPathEdit(layerID string) error {
	if layerID == "" {
		return apperr.Invalid("layer", "is required")
	}
	if err := s.SelectLayer(layerID); err != nil {
		return err
	}
	s.mode = ModePathEdit
	return nil
}

func (s *Session) EndPathEdit() {
	if s.mode == ModePathEdit {
		s.exitSubMode()
	}
}

// editPath runs fn on a copy of the selected layer's path points and stores the result.
func (s *Session) editPath(fn func(points []scene.Point) ([]scene.Point, error)) (scene.Layer, error) {
	if s.mode != ModePathEdit {
		return scene.Layer{}, apperr.Invalid("mode", "not editing a motion path")
	}
	list, i, err := s.locate(s.selectedLayerID)
	if err != nil {
		return scene.Layer{}, err
	}

	l := (*list)[i]
	mp := scene.MotionPathConfig{Points: []scene.Point{}}
	if l.MotionPath != nil {
		mp = *l.MotionPath
	}
	points := make([]scene.Point, len(mp.Points))
	copy(points, mp.Points)

	points, err = fn(points)
	if err != nil {
		return scene.Layer{}, err
	}
	mp.Points = points
	l.MotionPath = &mp
	(*list)[i] = l
	return l, nil
}

func checkIndex(points []scene.Point, i int) error {
	if i < 0 || i >= len(points) {
		return apperr.Invalid("point", fmt.Sprintf("index %d out of range [0,%d)", i, len(points)))
	}
	return nil
}

// AddPathPoint appends p, in canvas space, to the end of the path.
func (s *Session) AddPathPoint(p scene.Point) (scene.Layer, error) {
	return s.editPath(func(points []scene.Point) ([]scene.Point, error) {
		return append(points, p), nil
	})
}

// AddPathPointAtScreen converts a pointer position to canvas space and appends it.
func (s *Session) AddPathPointAtScreen(screen scene.Point) (scene.Layer, error) {
	return s.AddPathPoint(s.ScreenToCanvas(screen))
}

// InsertPathPoint places p before index i; i == len(points) appends.
func (s *Session) InsertPathPoint(i int, p scene.Point) (scene.Layer, error) {
	return s.editPath(func(points []scene.Point) ([]scene.Point, error) {
		if i < 0 || i > len(points) {
			return nil, apperr.Invalid("point", fmt.Sprintf("index %d out of range [0,%d]", i, len(points)))
		}
		points = append(points, scene.Point{})
		copy(points[i+1:], points[i:])
		points[i] = p
		return points, nil
	})
}

func (s *Session) MovePathPoint(i int, p scene.Point) (scene.Layer, error) {
	return s.editPath(func(points []scene.Point) ([]scene.Point, error) {
		if err := checkIndex(points, i); err != nil {
			return nil, err
		}
		points[i] = p
		return points, nil
	})
}

func (s *Session) DeletePathPoint(i int) (scene.Layer, error) {
	return s.editPath(func(points []scene.Point) ([]scene.Point, error) {
		if err := checkIndex(points, i); err != nil {
			return nil, err
		}
		return append(points[:i], points[i+1:]...), nil
	})
}

// ClearPath empties the path. The layer keeps a path config with no points.
func (s *Session) ClearPath() (scene.Layer, error) {
	return s.editPath(func([]scene.Point) ([]scene.Point, error) {
		return []scene.Point{}, nil
	})
}
