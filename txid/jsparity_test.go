package txid

import (
	"fmt"
	"strings"
	"testing"

	"github.com/robertkrimen/otto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the same inputs through a JavaScript engine, since the
// remote side computes the animation key in a browser.

func evalJS(t *testing.T, vm *otto.Otto, src string) otto.Value {
	t.Helper()
	v, err := vm.Run(src)
	require.NoError(t, err, src)
	return v
}

func TestJSRoundMatchesMathRound(t *testing.T) {
	vm := otto.New()
	for _, x := range []float64{0, 0.4, 0.5, 0.6, 1.5, 2.5, 3.3, 201.6, -0.4, -0.5, -0.6, -1.5, -2.5, -7.5, -201.6} {
		want, err := evalJS(t, vm, fmt.Sprintf("Math.round(%v)", x)).ToFloat()
		require.NoError(t, err)
		assert.InDelta(t, want, JSRound(x), 0, "Math.round(%v)", x)
	}
}

func TestIntegerHexMatchesToString(t *testing.T) {
	vm := otto.New()
	for n := 0; n <= 255; n += 5 {
		want, err := evalJS(t, vm, fmt.Sprintf("(%d).toString(16)", n)).ToString()
		require.NoError(t, err)
		assert.Equal(t, want, fmt.Sprintf("%x", n), "n=%d", n)
		assert.Equal(t, want, strings.ToLower(FloatToHex(float64(n))), "n=%d", n)
	}
}

func TestRotationMatchesMathTrig(t *testing.T) {
	vm := otto.New()
	for _, deg := range []float64{0, 18.807775543535904, 60, 132, 300} {
		src := fmt.Sprintf("var r = %v * Math.PI / 180; [Math.cos(r), -Math.sin(r), Math.sin(r), Math.cos(r)].join(',')", deg)
		joined, err := evalJS(t, vm, src).ToString()
		require.NoError(t, err)

		got := RotationMatrix(deg)
		parts := strings.Split(joined, ",")
		require.Len(t, parts, 4)
		for i, p := range parts {
			var want float64
			_, err := fmt.Sscan(p, &want)
			require.NoError(t, err)
			assert.InDelta(t, want, got[i], 1e-12, "deg=%v cell=%d", deg, i)
		}
	}
}
