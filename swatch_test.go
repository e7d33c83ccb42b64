package colorclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/colorclass/imageutil"
)

func TestRenderSwatch(t *testing.T) {
	r := newTestRaster(4, 4, func(_, y int) RGB {
		if y < 3 {
			return red
		}
		return blue
	})
	require.NoError(t, Cluster(r, 2))

	img, err := RenderSwatch(r, SwatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 220, img.Width())
	assert.Equal(t, 80, img.Height())

	// Tiles follow id order: blue is cluster 0.
	assert.Equal(t, RGB{B: 248}, img.GetRGB(1, 1))
	assert.Equal(t, RGB{R: 248}, img.GetRGB(1, 41))

	// Some label ink is drawn on each tile.
	assert.True(t, hasPixelOtherThan(img, 0, 40, RGB{B: 248}))
	assert.True(t, hasPixelOtherThan(img, 40, 80, RGB{R: 248}))
}

func TestRenderSwatchByRank(t *testing.T) {
	r := newTestRaster(4, 4, func(_, y int) RGB {
		if y < 3 {
			return red
		}
		return blue
	})
	require.NoError(t, Cluster(r, 2))

	img, err := RenderSwatch(r, SwatchOptions{TileWidth: 300, TileHeight: 30, FontSize: 10, ByRank: true})
	require.NoError(t, err)
	assert.Equal(t, 300, img.Width())
	assert.Equal(t, 60, img.Height())
	assert.Equal(t, RGB{R: 248}, img.GetRGB(1, 1))
	assert.Equal(t, RGB{B: 248}, img.GetRGB(1, 31))
}

func TestRenderSwatchUnclassified(t *testing.T) {
	_, err := RenderSwatch(NewRaster(imageutil.CreateSolidImage(2, 2, red)), SwatchOptions{})
	assert.ErrorIs(t, err, ErrNotClassified)
}

func hasPixelOtherThan(img *imageutil.RGBAImage, y0, y1 int, c RGB) bool {
	for y := y0; y < y1; y++ {
		for x := 0; x < img.Width(); x++ {
			if img.GetRGB(x, y) != c {
				return true
			}
		}
	}
	return false
}
