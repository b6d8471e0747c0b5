package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in    string
		hex   string
		alpha float64
		err   bool
	}{
		{in: "#ff0000", hex: "#ff0000", alpha: 1},
		{in: "#0F0", hex: "#00ff00", alpha: 1},
		{in: "rgb(0, 0, 255)", hex: "#0000ff", alpha: 1},
		{in: "rgba(255, 255, 255, 0.5)", hex: "#ffffff", alpha: 0.5},
		{in: "none", hex: "#000000", alpha: 0},
		{in: "transparent", hex: "#000000", alpha: 0},
		{in: "rgb(300, 0, 0)", err: true},
		{in: "#12", err: true},
		{in: "chartreuse", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hex, alpha, err := SplitColor(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hex, hex)
			assert.InDelta(t, tt.alpha, alpha, 1e-9)
		})
	}
}

func TestHexToRGBA(t *testing.T) {
	got, err := HexToRGBA("#ff8000", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "rgba(255, 128, 0, 0.5)", got)

	got, err = HexToRGBA("#000000", 2)
	require.NoError(t, err)
	assert.Equal(t, "rgba(0, 0, 0, 1)", got)

	_, err = HexToRGBA("bogus", 0.5)
	assert.Error(t, err)
}
