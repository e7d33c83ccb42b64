package colorclass

import (
	"fmt"
	"image"

	"github.com/wbrown/colorclass/imageutil"
)

// MaxClusters is the largest supported cluster count. Labels are stored one
// byte per pixel.
const MaxClusters = 256

// Format tags what a Raster's auxiliary channels hold.
type Format int

const (
	// FormatRGB is a plain raster with no meaningful label channel.
	FormatRGB Format = iota
	// FormatClassified marks a raster whose label channel and palette
	// metadata were written by Cluster.
	FormatClassified
)

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatClassified:
		return "classified"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Raster is an RGB image plus the classification metadata attached to it
// by Cluster: a per-pixel label channel, the palette of cluster colors,
// per-cluster pixel counts and weight ranks.
//
// A Raster must not be clustered from two goroutines at once. Distinct
// rasters may be clustered concurrently.
type Raster struct {
	img    *imageutil.RGBAImage
	format Format

	labels  *imageutil.GrayImage
	palette []RGB
	counts  []int
	ranks   []int
}

// NewRaster wraps img. The raster takes ownership of img.
func NewRaster(img *imageutil.RGBAImage) *Raster {
	return &Raster{img: img, format: FormatRGB}
}

// RasterFromImage copies any image.Image into a new Raster.
func RasterFromImage(img image.Image) *Raster {
	return NewRaster(imageutil.RGBAImageFromImage(img))
}

// LoadRaster decodes the image at path into a new Raster.
func LoadRaster(path string) (*Raster, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return NewRaster(img), nil
}

// Image returns the underlying RGB image.
func (r *Raster) Image() *imageutil.RGBAImage {
	return r.img
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int {
	return r.img.Width()
}

// Height returns the raster height in pixels.
func (r *Raster) Height() int {
	return r.img.Height()
}

// Format returns the raster's format tag.
func (r *Raster) Format() Format {
	return r.format
}

// IsClassified reports whether the label channel and palette are valid.
func (r *Raster) IsClassified() bool {
	return r.format == FormatClassified
}

// NumClusters returns the cluster count of the last classification, or 0.
func (r *Raster) NumClusters() int {
	return len(r.palette)
}

// Palette returns a copy of the cluster colors indexed by cluster id.
// Clusters that ended up empty still have an entry.
func (r *Raster) Palette() []RGB {
	return append([]RGB(nil), r.palette...)
}

// Counts returns a copy of the per-cluster pixel counts.
func (r *Raster) Counts() []int {
	return append([]int(nil), r.counts...)
}

// Ranks returns a copy of the per-cluster weight ranks; rank 0 is the
// cluster with the most pixels.
func (r *Raster) Ranks() []int {
	return append([]int(nil), r.ranks...)
}

// Label returns the cluster id of the pixel at (x, y), or -1 if the raster
// is not classified or (x, y) is outside it.
func (r *Raster) Label(x, y int) int {
	if !r.IsClassified() {
		return -1
	}
	v, ok := r.labels.LabelAt(x, y)
	if !ok {
		return -1
	}
	return int(v)
}

// Labels returns the label channel, or nil if the raster is not
// classified. Each gray value is a cluster id.
func (r *Raster) Labels() *imageutil.GrayImage {
	if !r.IsClassified() {
		return nil
	}
	return r.labels
}

// ClusterColor returns the palette color of cluster id.
func (r *Raster) ClusterColor(id int) (RGB, error) {
	if err := r.checkCluster(id); err != nil {
		return RGB{}, err
	}
	return r.palette[id], nil
}

func (r *Raster) validate() error {
	if r == nil || r.img == nil || r.img.RGBA == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidInput)
	}
	if r.format != FormatRGB && r.format != FormatClassified {
		return fmt.Errorf("%w: unknown raster format %v", ErrInvalidInput, r.format)
	}
	b := r.img.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: raster has no pixels", ErrInvalidInput)
	}
	if b.Min != (image.Point{}) {
		return fmt.Errorf("%w: raster origin %v is not zero", ErrInvalidInput, b.Min)
	}
	return nil
}

func (r *Raster) requireClassified() error {
	if err := r.validate(); err != nil {
		return err
	}
	if !r.IsClassified() {
		return ErrNotClassified
	}
	return nil
}

func (r *Raster) checkCluster(id int) error {
	if err := r.requireClassified(); err != nil {
		return err
	}
	if id < 0 || id >= len(r.palette) {
		return &ErrClusterOutOfRange{ID: id, NumClusters: len(r.palette)}
	}
	return nil
}
