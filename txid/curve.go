package txid

import "math"

const curveTolerance = 0.00001

// CubicCurve is a CSS cubic-bezier() timing function. The endpoints are
// fixed at (0,0) and (1,1); X1/Y1 and X2/Y2 are the interior control points.
type CubicCurve struct {
	X1, Y1, X2, Y2 float64
}

// NewCubicCurve builds a curve from the first four values of curves
// (x1, y1, x2, y2). Missing values are treated as 0.
func NewCubicCurve(curves []float64) CubicCurve {
	var c [4]float64
	copy(c[:], curves)
	return CubicCurve{X1: c[0], Y1: c[1], X2: c[2], Y2: c[3]}
}

// Value returns the curve's progress for the time fraction t. Outside
// [0, 1] the curve is extended linearly along the endpoint tangent.
func (c CubicCurve) Value(t float64) float64 {
	if t <= 0 {
		var startGradient float64
		if c.X1 > 0 {
			startGradient = c.Y1 / c.X1
		} else if c.Y1 == 0 && c.X2 > 0 {
			startGradient = c.Y2 / c.X2
		}
		return startGradient * t
	}

	if t >= 1 {
		var endGradient float64
		if c.X2 < 1 {
			endGradient = (c.Y2 - 1) / (c.X2 - 1)
		} else if c.X2 == 1 && c.X1 < 1 {
			endGradient = (c.Y1 - 1) / (c.X1 - 1)
		}
		return 1 + float64(endGradient*(t-1))
	}

	low, high := 0.0, 1.0
	var mid float64
	for {
		mid = (low + high) / 2
		xEstimate := bezier(c.X1, c.X2, mid)
		if math.Abs(t-xEstimate) < curveTolerance {
			return bezier(c.Y1, c.Y2, mid)
		}
		if math.Abs(high-low) < epsilon {
			break
		}
		if xEstimate < t {
			low = mid
		} else {
			high = mid
		}
	}
	return bezier(c.Y1, c.Y2, mid)
}

// epsilon is the difference between 1 and the next representable float64.
const epsilon = 2.220446049250313e-16

// bezier evaluates one axis of the curve at parameter s:
// 3·p1·(1-s)²·s + 3·p2·(1-s)·s² + s³.
func bezier(p1, p2, s float64) float64 {
	complement := 1 - s
	return float64(3*p1*complement*complement*s) + float64(3*p2*complement*s*s) + float64(s*s*s)
}
