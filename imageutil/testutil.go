package imageutil

// Synthetic rasters with a known, small set of colors, and comparisons
// used by the clustering tests.

// colorBars are the eight corners of the RGB cube; their 5/6/5
// quantized keys are all distinct.
var colorBars = [...]RGB{
	{R: 255, G: 255, B: 255},
	{R: 255, G: 255},
	{G: 255, B: 255},
	{G: 255},
	{R: 255, B: 255},
	{R: 255},
	{B: 255},
	{},
}

// fill builds a width x height image colored by f.
func fill(width, height int, f func(x, y int) RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, f(x, y))
		}
	}
	return img
}

// CreateGradientImage returns a left-to-right black to white ramp.
func CreateGradientImage(width, height int) *RGBAImage {
	span := max(width-1, 1)
	return fill(width, height, func(x, _ int) RGB {
		v := uint8(255 * x / span)
		return RGB{R: v, G: v, B: v}
	})
}

// CreateSolidImage returns an image of a single color.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	return fill(width, height, func(int, int) RGB { return c })
}

// CreateHalvesImage returns an image whose rows above height/2 are top
// and the rest bottom.
func CreateHalvesImage(width, height int, top, bottom RGB) *RGBAImage {
	return fill(width, height, func(_, y int) RGB {
		if y < height/2 {
			return top
		}
		return bottom
	})
}

// CreateCheckerboardImage returns squares of side square alternating
// between a and b, with a in the top-left corner.
func CreateCheckerboardImage(width, height, square int, a, b RGB) *RGBAImage {
	return fill(width, height, func(x, y int) RGB {
		if (x/square+y/square)%2 == 0 {
			return a
		}
		return b
	})
}

// CreateColorBarsImage returns eight vertical bars, one per corner of the
// RGB cube from white to black. Leftover columns take the last bar.
func CreateColorBarsImage(width, height int) *RGBAImage {
	bar := max(width/len(colorBars), 1)
	return fill(width, height, func(x, _ int) RGB {
		return colorBars[min(x/bar, len(colorBars)-1)]
	})
}

// CalculateMaxDiff returns the largest per-channel difference between two
// images, or 256 if their sizes differ.
func CalculateMaxDiff(img1, img2 *RGBAImage) int {
	if img1.Rect.Size() != img2.Rect.Size() {
		return 256
	}
	maxDiff := 0
	for y := 0; y < img1.Height(); y++ {
		for x := 0; x < img1.Width(); x++ {
			a, b := img1.GetRGB(x, y), img2.GetRGB(x, y)
			maxDiff = max(maxDiff,
				absDiff(a.R, b.R), absDiff(a.G, b.G), absDiff(a.B, b.B))
		}
	}
	return maxDiff
}

// CalculateJaccardIndex returns |A∩B| / |A∪B| of two binary masks, where a
// pixel is set when its value exceeds 128. Two empty masks score 1, masks
// of different sizes 0.
func CalculateJaccardIndex(mask1, mask2 *GrayImage) float64 {
	if mask1.Rect.Size() != mask2.Rect.Size() {
		return 0
	}
	var inter, union int
	for i, v := range mask1.Pix {
		a, b := v > 128, mask2.Pix[i] > 128
		if a && b {
			inter++
		}
		if a || b {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
