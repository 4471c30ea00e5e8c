package txid

import (
	"fmt"
	"math"
	"strings"
)

const minFrameValues = 11

// solve maps a 0-255 frame value onto [minVal, maxVal]; floored when
// rounding is set, otherwise rounded to two decimals.
func solve(value, minVal, maxVal float64, rounding bool) float64 {
	result := float64(value*(maxVal-minVal)/255) + minVal
	if rounding {
		return math.Floor(result)
	}
	return math.Round(result*100) / 100
}

// animate replays the loading animation of one frame at targetTime and
// encodes the resulting color and transform as the animation key.
func animate(frame []int, targetTime float64) (string, error) {
	if len(frame) < minFrameValues {
		return "", parseError("frame has %d values, need at least %d", len(frame), minFrameValues)
	}

	fromColor := []float64{float64(frame[0]), float64(frame[1]), float64(frame[2]), 1}
	toColor := []float64{float64(frame[3]), float64(frame[4]), float64(frame[5]), 1}
	fromRotation := []float64{0}
	toRotation := []float64{solve(float64(frame[6]), 60, 360, true)}

	rest := frame[7:]
	curves := make([]float64, len(rest))
	for i, v := range rest {
		curves[i] = solve(float64(v), oddCoefficient(i), 1, false)
	}
	factor := NewCubicCurve(curves).Value(targetTime)

	color, err := Interpolate(fromColor, toColor, factor)
	if err != nil {
		return "", err
	}
	for i, c := range color {
		color[i] = math.Max(0, math.Min(255, c))
	}

	rotation, err := Interpolate(fromRotation, toRotation, factor)
	if err != nil {
		return "", err
	}
	matrix := RotationMatrix(rotation[0])

	parts := make([]string, 0, 9)
	for _, c := range color[:3] {
		parts = append(parts, fmt.Sprintf("%x", int(math.Round(c))))
	}
	for _, v := range matrix {
		hex := strings.ToLower(FloatToHex(math.Abs(math.Round(v*100) / 100)))
		switch {
		case strings.HasPrefix(hex, "."):
			hex = "0" + hex
		case hex == "":
			hex = "0"
		}
		parts = append(parts, hex)
	}
	parts = append(parts, "0", "0")

	return strings.NewReplacer(".", "", "-", "").Replace(strings.Join(parts, "")), nil
}
