package txid

import (
	"math"
	"strings"
)

// maxHexLen caps the length of FloatToHex output.
const maxHexLen = 20

// Interpolate blends from and to element-wise by factor.
func Interpolate(from, to []float64, factor float64) ([]float64, error) {
	if len(from) != len(to) {
		return nil, ErrMismatchedArguments
	}
	out := make([]float64, len(from))
	for i := range from {
		out[i] = Lerp(from[i], to[i], factor)
	}
	return out, nil
}

// Lerp returns from*(1-factor) + to*factor.
func Lerp(from, to, factor float64) float64 {
	return float64(from*(1-factor)) + float64(to*factor)
}

// RotationMatrix converts degrees to a 2x2 rotation matrix laid out as
// [cos, -sin, sin, cos].
func RotationMatrix(degrees float64) [4]float64 {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return [4]float64{cos, -sin, sin, cos}
}

// JSRound rounds like JavaScript's Math.round: halves round toward +Inf,
// so -0.5 becomes 0 and -1.5 becomes -1. math.Round would go away from zero.
func JSRound(x float64) float64 {
	if x-math.Trunc(x) == -0.5 {
		return math.Ceil(x)
	}
	return math.Round(x)
}

// FloatToHex renders a non-negative number in uppercase base 16, e.g.
// 10 -> "A", 0.5 -> "0.8".
func FloatToHex(x float64) string {
	if x == 0 {
		return "0"
	}

	var b strings.Builder
	quotient := int64(math.Floor(x))
	fraction := x - float64(quotient)

	if quotient == 0 {
		b.WriteByte('0')
	} else {
		var digits []byte
		for quotient > 0 {
			digits = append(digits, hexDigit(quotient%16))
			quotient /= 16
		}
		for i := len(digits) - 1; i >= 0; i-- {
			b.WriteByte(digits[i])
		}
	}

	if fraction > 0 {
		b.WriteByte('.')
		for fraction > 0 {
			fraction *= 16
			integer := int64(math.Floor(fraction))
			fraction -= float64(integer)
			b.WriteByte(hexDigit(integer))
			if b.Len() >= maxHexLen {
				break
			}
		}
	}

	return b.String()
}

func hexDigit(d int64) byte {
	if d > 9 {
		return byte(d + 55)
	}
	return byte('0' + d)
}

// oddCoefficient is the lower bound used for the i-th bezier control value.
func oddCoefficient(i int) float64 {
	if i%2 == 1 {
		return -1
	}
	return 0
}
