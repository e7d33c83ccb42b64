package colorclass

import (
	"fmt"
	"image"
	"image/color"

	"github.com/wbrown/colorclass/imageutil"
)

// Mask returns a binary mask of r: 255 where a pixel belongs to one of
// the given clusters, 0 elsewhere.
func (r *Raster) Mask(ids ...int) (*imageutil.GrayImage, error) {
	if err := r.requireClassified(); err != nil {
		return nil, err
	}
	var selected [MaxClusters]bool
	for _, id := range ids {
		if err := r.checkCluster(id); err != nil {
			return nil, err
		}
		selected[id] = true
	}

	width, height := r.Width(), r.Height()
	mask := imageutil.NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if selected[r.labels.GetGray(x, y)] {
				mask.SetGrayValue(x, y, 255)
			}
		}
	}
	return mask, nil
}

// Recolor renders r with every pixel replaced by its cluster's palette
// color.
func (r *Raster) Recolor() (*imageutil.RGBAImage, error) {
	if err := r.requireClassified(); err != nil {
		return nil, err
	}
	width, height := r.Width(), r.Height()
	out := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetRGB(x, y, r.palette[r.labels.GetGray(x, y)])
		}
	}
	return out, nil
}

// Paletted returns r as an image.Paletted whose palette is the cluster
// palette and whose color indices are the labels.
func (r *Raster) Paletted() (*image.Paletted, error) {
	if err := r.requireClassified(); err != nil {
		return nil, err
	}
	p := make(color.Palette, len(r.palette))
	for i, c := range r.palette {
		p[i] = c.ToColor()
	}
	width, height := r.Width(), r.Height()
	pi := image.NewPaletted(image.Rect(0, 0, width, height), p)
	for y := 0; y < height; y++ {
		copy(pi.Pix[y*pi.Stride:y*pi.Stride+width],
			r.labels.Pix[y*r.labels.Stride:y*r.labels.Stride+width])
	}
	return pi, nil
}

// AtmosphericLight estimates the airlight of a hazy scene as the palette
// color of the brightest non-empty cluster.
func AtmosphericLight(r *Raster) (RGB, error) {
	if err := r.requireClassified(); err != nil {
		return RGB{}, err
	}
	best := -1
	var bestLum uint8
	for id, c := range r.palette {
		if r.counts[id] == 0 {
			continue
		}
		if lum := imageutil.Luminance(c); best < 0 || lum > bestLum {
			best = id
			bestLum = lum
		}
	}
	if best < 0 {
		return RGB{}, fmt.Errorf("%w: every cluster is empty", ErrInvalidInput)
	}
	return r.palette[best], nil
}

// TransferColors recolors dst using the palette of src. Clusters are
// matched by weight rank: dst's heaviest cluster takes on src's heaviest
// cluster's color, and so on. Ranks beyond src's cluster count map to
// src's lightest-weight cluster. Each pixel keeps its offset from its own
// cluster centroid, so texture within a cluster survives the transfer.
func TransferColors(dst, src *Raster) (*imageutil.RGBAImage, error) {
	if err := dst.requireClassified(); err != nil {
		return nil, err
	}
	if err := src.requireClassified(); err != nil {
		return nil, err
	}

	byRank := make([]int, len(src.ranks))
	for id, rank := range src.ranks {
		byRank[rank] = id
	}

	type shift struct{ r, g, b int }
	shifts := make([]shift, len(dst.palette))
	for id, from := range dst.palette {
		rank := dst.ranks[id]
		if rank >= len(byRank) {
			rank = len(byRank) - 1
		}
		to := src.palette[byRank[rank]]
		shifts[id] = shift{
			r: int(to.R) - int(from.R),
			g: int(to.G) - int(from.G),
			b: int(to.B) - int(from.B),
		}
	}

	width, height := dst.Width(), dst.Height()
	out := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := dst.img.GetRGB(x, y)
			s := shifts[dst.labels.GetGray(x, y)]
			out.SetRGB(x, y, RGB{
				R: clampByte(int(c.R) + s.r),
				G: clampByte(int(c.G) + s.g),
				B: clampByte(int(c.B) + s.b),
			})
		}
	}
	return out, nil
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
