// Package imageutil is the pure Go raster layer under colorclass: an RGB
// image, a one-byte-per-pixel label image, a flat scratch grid, codecs,
// scaling and convolution pre-filters.
package imageutil

import (
	"image"
	"image/color"
	"slices"

	"golang.org/x/image/draw"
)

// RGB is an opaque 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// ToColor returns c as an opaque color.RGBA.
func (c RGB) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGBAImage is an image.RGBA addressed by RGB values. Alpha is written as
// 255 and ignored on reads.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage allocates a black, fully transparent width x height image
// anchored at the origin.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// RGBAImageFromImage copies img into a new RGBAImage whose bounds start at
// the origin, whatever img's bounds were.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	b := img.Bounds()
	dst := NewRGBAImage(b.Dx(), b.Dy())
	draw.Draw(dst.RGBA, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Rect.Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Rect.Dy()
}

// GetRGB returns the color at (x, y), or black outside the bounds.
func (img *RGBAImage) GetRGB(x, y int) RGB {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return RGB{}
	}
	p := img.Pix[img.PixOffset(x, y):]
	return RGB{R: p[0], G: p[1], B: p[2]}
}

// SetRGB stores c at (x, y). Writes outside the bounds are dropped.
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, c.ToColor())
}

// Clone returns a deep copy of img.
func (img *RGBAImage) Clone() *RGBAImage {
	return &RGBAImage{RGBA: &image.RGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}}
}

// GrayImage is a one-byte-per-pixel image. colorclass uses it for label
// channels, where each value is a cluster id, and for binary masks.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage allocates a zeroed width x height image anchored at the
// origin.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{Gray: image.NewGray(image.Rect(0, 0, width, height))}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Rect.Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Rect.Dy()
}

// InBounds reports whether (x, y) is a pixel of img.
func (img *GrayImage) InBounds(x, y int) bool {
	return image.Point{X: x, Y: y}.In(img.Rect)
}

// GetGray returns the value at (x, y), or 0 outside the bounds. Use
// LabelAt where 0 is a meaningful value.
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// LabelAt returns the value at (x, y) and whether (x, y) is in bounds.
func (img *GrayImage) LabelAt(x, y int) (uint8, bool) {
	if !img.InBounds(x, y) {
		return 0, false
	}
	return img.Pix[img.PixOffset(x, y)], true
}

// SetGrayValue stores v at (x, y). Writes outside the bounds are dropped.
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.SetGray(x, y, color.Gray{Y: v})
}

// Histogram counts the pixels holding each value.
func (img *GrayImage) Histogram() [256]int {
	var h [256]int
	w := img.Width()
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		for _, v := range img.Pix[off : off+w] {
			h[v]++
		}
	}
	return h
}
