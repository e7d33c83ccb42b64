package colorclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/colorclass/imageutil"
)

var (
	red   = RGB{R: 255}
	green = RGB{G: 255}
	blue  = RGB{B: 255}
	white = RGB{R: 255, G: 255, B: 255}
	black = RGB{}
)

// newTestRaster builds a width x height raster colored by fill.
func newTestRaster(width, height int, fill func(x, y int) RGB) *Raster {
	img := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, fill(x, y))
		}
	}
	return NewRaster(img)
}

func TestQuantKeyRoundTrip(t *testing.T) {
	for key := 0; key < NumKeys; key++ {
		require.Equal(t, uint16(key), QuantKey(KeyColor(uint16(key))), "key %d", key)
	}
}

func TestQuantKeyPacking(t *testing.T) {
	assert.Equal(t, uint16(0), QuantKey(black))
	assert.Equal(t, uint16(0xffff), QuantKey(white))
	assert.Equal(t, uint16(31<<11), QuantKey(red))
	assert.Equal(t, uint16(63<<5), QuantKey(green))
	assert.Equal(t, uint16(31), QuantKey(blue))

	// Low bits are truncated away.
	assert.Equal(t, QuantKey(RGB{R: 200, G: 100, B: 50}), QuantKey(RGB{R: 207, G: 103, B: 55}))
	assert.Equal(t, RGB{R: 200, G: 100, B: 48}, KeyColor(QuantKey(RGB{R: 207, G: 103, B: 55})))
}

func TestBuildColorTable(t *testing.T) {
	img := imageutil.CreateHalvesImage(4, 4, red, blue)
	table, err := BuildColorTable(img)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	// Ascending key order: blue (key 31) before red (key 63488).
	assert.Equal(t, ColorRow{Color: RGB{B: 248}, Weight: 8}, table.Row(0))
	assert.Equal(t, ColorRow{Color: RGB{R: 248}, Weight: 8}, table.Row(1))
	assert.Equal(t, 16.0, table.TotalWeight())
}

func TestBuildColorTableIgnoresScanOrder(t *testing.T) {
	a, err := BuildColorTable(imageutil.CreateColorBarsImage(64, 8))
	require.NoError(t, err)

	// Same pixels, mirrored horizontally.
	bars := imageutil.CreateColorBarsImage(64, 8)
	mirrored := imageutil.NewRGBAImage(64, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 64; x++ {
			mirrored.SetRGB(63-x, y, bars.GetRGB(x, y))
		}
	}
	b, err := BuildColorTable(mirrored)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Row(i), b.Row(i))
	}
}

func TestBuildColorTableBounds(t *testing.T) {
	img := imageutil.CreateGradientImage(300, 2)
	table, err := BuildColorTable(img)
	require.NoError(t, err)
	assert.LessOrEqual(t, table.Len(), 600)
	assert.LessOrEqual(t, table.Len(), NumKeys)
	assert.Equal(t, 600.0, table.TotalWeight())

	for i := 1; i < table.Len(); i++ {
		assert.Less(t, QuantKey(table.Row(i-1).Color), QuantKey(table.Row(i).Color))
	}
}

func TestBuildColorTableInvalid(t *testing.T) {
	_, err := BuildColorTable(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildColorTable(imageutil.NewRGBAImage(0, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
