package colorclass

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/colorclass/imageutil"
)

func classified(t *testing.T, r *Raster, k int) *Raster {
	t.Helper()
	require.NoError(t, Cluster(r, k))
	return r
}

func TestMask(t *testing.T) {
	r := classified(t, NewRaster(imageutil.CreateHalvesImage(4, 4, red, blue)), 2)
	redID := r.Label(0, 0)

	mask, err := r.Mask(redID)
	require.NoError(t, err)

	want := imageutil.NewGrayImage(4, 4)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want.SetGrayValue(x, y, 255)
		}
	}
	assert.Equal(t, 1.0, imageutil.CalculateJaccardIndex(want, mask))
	assert.Equal(t, want.Pix, mask.Pix)

	all, err := r.Mask(0, 1)
	require.NoError(t, err)
	for _, v := range all.Pix {
		assert.Equal(t, uint8(255), v)
	}

	none, err := r.Mask()
	require.NoError(t, err)
	for _, v := range none.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestMaskErrors(t *testing.T) {
	r := NewRaster(imageutil.CreateHalvesImage(4, 4, red, blue))
	_, err := r.Mask(0)
	assert.ErrorIs(t, err, ErrNotClassified)

	classified(t, r, 2)
	_, err = r.Mask(2)
	var oor *ErrClusterOutOfRange
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 2, oor.ID)
	assert.Equal(t, 2, oor.NumClusters)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.ClusterColor(-1)
	assert.ErrorAs(t, err, &oor)
}

func TestRecolor(t *testing.T) {
	src := imageutil.CreateHalvesImage(8, 8, red, blue)
	r := classified(t, NewRaster(src.Clone()), 2)

	out, err := r.Recolor()
	require.NoError(t, err)
	// Palette colors are the quantized 248 values.
	assert.Equal(t, 7, imageutil.CalculateMaxDiff(src, out))
	assert.Equal(t, RGB{R: 248}, out.GetRGB(0, 0))
	assert.Equal(t, RGB{B: 248}, out.GetRGB(7, 7))

	_, err = NewRaster(src).Recolor()
	assert.ErrorIs(t, err, ErrNotClassified)
}

func TestPaletted(t *testing.T) {
	r := classified(t, NewRaster(imageutil.CreateColorBarsImage(64, 4)), 8)

	pi, err := r.Paletted()
	require.NoError(t, err)
	require.Len(t, pi.Palette, 8)
	assert.Equal(t, image.Rect(0, 0, 64, 4), pi.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 64; x++ {
			assert.Equal(t, uint8(r.Label(x, y)), pi.ColorIndexAt(x, y))
		}
	}
}

func TestAtmosphericLight(t *testing.T) {
	r := classified(t, NewRaster(imageutil.CreateHalvesImage(4, 4, black, white)), 3)
	light, err := AtmosphericLight(r)
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 248, G: 252, B: 248}, light)

	_, err = AtmosphericLight(NewRaster(imageutil.CreateSolidImage(2, 2, white)))
	assert.ErrorIs(t, err, ErrNotClassified)
}

func TestAtmosphericLightSkipsEmptyClusters(t *testing.T) {
	// Cluster 0 is the brightest entry but owns no pixels.
	labels := imageutil.NewGrayImage(2, 2)
	for i := range labels.Pix {
		labels.Pix[i] = 1
	}
	r := &Raster{
		img:     imageutil.CreateSolidImage(2, 2, RGB{R: 40}),
		format:  FormatClassified,
		labels:  labels,
		palette: []RGB{white, {R: 40}, black},
		counts:  []int{0, 4, 0},
		ranks:   []int{1, 0, 2},
	}
	light, err := AtmosphericLight(r)
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 40}, light)

	r.counts = []int{0, 0, 0}
	_, err = AtmosphericLight(r)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransferColors(t *testing.T) {
	// dst: 12 red pixels, 4 blue. src: 12 green pixels, 4 white.
	dst := classified(t, newTestRaster(4, 4, func(_, y int) RGB {
		if y < 3 {
			return red
		}
		return blue
	}), 2)
	src := classified(t, newTestRaster(4, 4, func(_, y int) RGB {
		if y < 3 {
			return green
		}
		return white
	}), 2)

	out, err := TransferColors(dst, src)
	require.NoError(t, err)

	// red (255,0,0) shifted from (248,0,0) onto (0,252,0)
	assert.Equal(t, RGB{R: 7, G: 252, B: 0}, out.GetRGB(0, 0))
	// blue (0,0,255) shifted from (0,0,248) onto (248,252,248)
	assert.Equal(t, RGB{R: 248, G: 252, B: 255}, out.GetRGB(0, 3))
}

func TestTransferColorsFewerSourceClusters(t *testing.T) {
	dst := classified(t, NewRaster(imageutil.CreateColorBarsImage(64, 4)), 8)
	src := classified(t, NewRaster(imageutil.CreateSolidImage(4, 4, RGB{R: 128, G: 128, B: 128})), 1)

	out, err := TransferColors(dst, src)
	require.NoError(t, err)
	assert.Equal(t, dst.Width(), out.Width())

	_, err = TransferColors(dst, NewRaster(imageutil.CreateSolidImage(1, 1, red)))
	assert.ErrorIs(t, err, ErrNotClassified)
}

func TestQuantizer(t *testing.T) {
	bars := imageutil.CreateColorBarsImage(64, 8)

	var q draw.Quantizer = Quantizer{}
	p := q.Quantize(make(color.Palette, 0, 8), bars.RGBA)
	assert.Len(t, p, 8)

	// Only non-empty clusters are appended.
	p = Quantizer{Classifier: NewClassifier()}.Quantize(make(color.Palette, 1, 20), bars.RGBA)
	assert.Len(t, p, 9)

	// Invalid images leave the palette unchanged.
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	assert.Len(t, q.Quantize(make(color.Palette, 0, 4), empty), 0)
}
