package imageutil

import (
	"fmt"
	"math"
)

// Kernel is a square, odd-sized convolution kernel stored row-major.
type Kernel struct {
	size    int
	weights []float64
}

// NewKernel builds a kernel from its rows. It panics unless rows form an
// odd-sized square.
func NewKernel(rows [][]float64) *Kernel {
	n := len(rows)
	if n%2 == 0 {
		panic(fmt.Sprintf("imageutil: kernel size %d is not odd", n))
	}
	k := &Kernel{size: n, weights: make([]float64, 0, n*n)}
	for _, row := range rows {
		if len(row) != n {
			panic(fmt.Sprintf("imageutil: kernel row has %d values, want %d", len(row), n))
		}
		k.weights = append(k.weights, row...)
	}
	return k
}

// Size returns the kernel's width and height.
func (k *Kernel) Size() int {
	return k.size
}

// Sum returns the sum of the weights; 1 means flat regions are preserved.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, w := range k.weights {
		s += w
	}
	return s
}

var (
	sharpenKernel = NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})

	// Binomial approximation of a Gaussian with sigma ~1.4.
	gaussianKernel = NewKernel([][]float64{
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{5.0 / 159, 12.0 / 159, 15.0 / 159, 12.0 / 159, 5.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
	})
)

// Convolve filters the color channels of img with k. Pixels past the
// border repeat the nearest edge pixel. The result is opaque.
func Convolve(img *RGBAImage, k *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)
	half := k.size / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum [3]float64
			for ky := 0; ky < k.size; ky++ {
				sy := clampInt(y+ky-half, 0, height-1)
				for kx := 0; kx < k.size; kx++ {
					sx := clampInt(x+kx-half, 0, width-1)
					w := k.weights[ky*k.size+kx]
					c := img.GetRGB(img.Rect.Min.X+sx, img.Rect.Min.Y+sy)
					sum[0] += float64(c.R) * w
					sum[1] += float64(c.G) * w
					sum[2] += float64(c.B) * w
				}
			}
			dst.SetRGB(x, y, RGB{
				R: clampUint8(sum[0]),
				G: clampUint8(sum[1]),
				B: clampUint8(sum[2]),
			})
		}
	}
	return dst
}

// Sharpen applies a mild 3x3 sharpening filter.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, sharpenKernel)
}

// GaussianBlur applies a 5x5 Gaussian blur. Blurring before clustering
// folds sensor noise into fewer quantized colors.
func GaussianBlur(img *RGBAImage) *RGBAImage {
	return Convolve(img, gaussianKernel)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampUint8(v float64) uint8 {
	return uint8(math.Round(max(0, min(v, 255))))
}
