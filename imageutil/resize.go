package imageutil

import (
	"golang.org/x/image/draw"
)

// Interpolation selects the scaler used by Resize and ResizeGray.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom. Best for shrinking photos
	// before clustering.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest copies the nearest source pixel. Use it for
	// label images, where blending ids would invent clusters.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize scales img to width x height.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeGray scales a grayscale or label image to width x height.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	dst := NewGrayImage(width, height)
	interp.scaler().Scale(dst.Gray, dst.Bounds(), img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeToWidth scales img to the given width, keeping its aspect ratio.
// The height is at least one pixel.
func ResizeToWidth(img *RGBAImage, width int, interp Interpolation) *RGBAImage {
	height := img.Height() * width / img.Width()
	if height < 1 {
		height = 1
	}
	return Resize(img, width, height, interp)
}
