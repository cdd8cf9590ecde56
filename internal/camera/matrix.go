// Package camera converts between screen and canvas space and computes the
// camera moves used by section zoom points.
package camera

import (
	"fmt"
	"math"

	"invitation-canvas-editor/internal/scene"
)

// Matrix is a 2D affine transform in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// x' = a*x + b*y + c, y' = d*x + e*y + f.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Multiply returns m * other, so other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

func (m Matrix) TransformPoint(p scene.Point) scene.Point {
	return scene.Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse matrix, or identity if m is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// CSS renders m as a CSS matrix() value.
func (m Matrix) CSS() string {
	return fmt.Sprintf("matrix(%g, %g, %g, %g, %g, %g)", m.A, m.D, m.B, m.E, m.C, m.F)
}
