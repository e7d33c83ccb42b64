package colorclass

import (
	"fmt"

	"github.com/wbrown/colorclass/imageutil"
)

// RGB is an 8-bit per channel color.
type RGB = imageutil.RGB

// Quantization bit depths. The 5/6/5 split packs a color into 16 bits.
const (
	redBits   = 5
	greenBits = 6
	blueBits  = 5

	// NumKeys is the size of the quantized color space.
	NumKeys = 1 << (redBits + greenBits + blueBits)
)

// Column layout of a ColorTable row.
const (
	colR = iota
	colG
	colB
	colWeight
	colClass
	colorTableCols
)

// QuantKey packs a color into its 16-bit quantized key by truncating each
// channel to 5/6/5 bits.
func QuantKey(c RGB) uint16 {
	return uint16(c.R>>(8-redBits))<<(greenBits+blueBits) |
		uint16(c.G>>(8-greenBits))<<blueBits |
		uint16(c.B>>(8-blueBits))
}

// KeyColor reconstructs the representative color of a quantized key by
// shifting the truncated channel bits back into 8-bit range.
func KeyColor(key uint16) RGB {
	return RGB{
		R: uint8(key>>(greenBits+blueBits)) << (8 - redBits),
		G: uint8(key>>blueBits&(1<<greenBits-1)) << (8 - greenBits),
		B: uint8(key&(1<<blueBits-1)) << (8 - blueBits),
	}
}

// ColorTable is the weighted histogram of the quantized colors present in
// a raster: one row per distinct key, in ascending key order, holding the
// reconstructed r, g, b, the pixel count and the current cluster id.
type ColorTable struct {
	grid *imageutil.Grid
}

// ColorRow is a decoded ColorTable row.
type ColorRow struct {
	Color  RGB
	Weight int
	Class  int
}

// NewColorTable wraps an existing grid as a color table. The grid must use
// the r, g, b, weight, class column layout; KMeans rejects any other shape.
func NewColorTable(grid *imageutil.Grid) *ColorTable {
	return &ColorTable{grid: grid}
}

// BuildColorTable scans img once and returns the weighted histogram of its
// quantized colors.
func BuildColorTable(img *imageutil.RGBAImage) (*ColorTable, error) {
	if img == nil || img.RGBA == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrInvalidInput)
	}

	weights := make([]int, NumKeys)
	distinct := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			key := QuantKey(img.GetRGB(x, y))
			if weights[key] == 0 {
				distinct++
			}
			weights[key]++
		}
	}

	grid := imageutil.NewGrid(distinct, colorTableCols)
	row := 0
	for key, w := range weights {
		if w == 0 {
			continue
		}
		c := KeyColor(uint16(key))
		r := grid.Row(row)
		r[colR] = float64(c.R)
		r[colG] = float64(c.G)
		r[colB] = float64(c.B)
		r[colWeight] = float64(w)
		row++
	}
	return &ColorTable{grid: grid}, nil
}

// Len returns the number of distinct quantized colors.
func (t *ColorTable) Len() int {
	return t.grid.Rows()
}

// Row decodes row i.
func (t *ColorTable) Row(i int) ColorRow {
	r := t.grid.Row(i)
	return ColorRow{
		Color: RGB{
			R: uint8(r[colR]),
			G: uint8(r[colG]),
			B: uint8(r[colB]),
		},
		Weight: int(r[colWeight]),
		Class:  int(r[colClass]),
	}
}

// TotalWeight returns the summed weight of all rows, which equals the pixel
// count of the source raster.
func (t *ColorTable) TotalWeight() float64 {
	return t.grid.SumCol(colWeight)
}

func (t *ColorTable) validate() error {
	if t == nil || t.grid == nil {
		return fmt.Errorf("%w: nil color table", ErrInvalidInput)
	}
	if t.grid.Cols() != colorTableCols {
		return fmt.Errorf("%w: color table has %d columns, want %d",
			ErrSchema, t.grid.Cols(), colorTableCols)
	}
	if t.grid.Rows() == 0 {
		return fmt.Errorf("%w: empty color table", ErrInvalidInput)
	}
	return nil
}
