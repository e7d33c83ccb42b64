package colorclass

import (
	"encoding/gob"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/wbrown/colorclass/imageutil"
)

// snapshot is the gob payload of a classified raster. Pix and Labels are
// tightly packed (RGBA and one byte per pixel respectively).
type snapshot struct {
	Width   int
	Height  int
	Pix     []byte
	Labels  []byte
	Palette []RGB
	Counts  []int
	Ranks   []int
}

// WriteSnapshot serializes a classified raster as a zstd-compressed gob
// stream, the form in which classified rasters are handed between
// processes.
func WriteSnapshot(w io.Writer, r *Raster) error {
	if err := r.requireClassified(); err != nil {
		return err
	}
	width, height := r.Width(), r.Height()
	snap := snapshot{
		Width:   width,
		Height:  height,
		Pix:     make([]byte, 0, width*height*4),
		Labels:  make([]byte, 0, width*height),
		Palette: r.palette,
		Counts:  r.counts,
		Ranks:   r.ranks,
	}
	for y := 0; y < height; y++ {
		off := y * r.img.Stride
		snap.Pix = append(snap.Pix, r.img.Pix[off:off+width*4]...)
		loff := y * r.labels.Stride
		snap.Labels = append(snap.Labels, r.labels.Pix[loff:loff+width]...)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(&snap); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a stream written by WriteSnapshot into a new
// classified Raster.
func ReadSnapshot(rd io.Reader) (*Raster, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}

	img := imageutil.NewRGBAImage(snap.Width, snap.Height)
	copy(img.Pix, snap.Pix)
	labels := imageutil.NewGrayImage(snap.Width, snap.Height)
	copy(labels.Pix, snap.Labels)
	return &Raster{
		img:     img,
		format:  FormatClassified,
		labels:  labels,
		palette: snap.Palette,
		counts:  snap.Counts,
		ranks:   snap.Ranks,
	}, nil
}

// SaveSnapshot writes a snapshot of r to path.
func SaveSnapshot(r *Raster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteSnapshot(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSnapshot reads a snapshot from path.
func LoadSnapshot(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

func (s *snapshot) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: snapshot has no pixels", ErrInvalidInput)
	}
	n := s.Width * s.Height
	if len(s.Pix) != n*4 || len(s.Labels) != n {
		return fmt.Errorf("%w: snapshot pixel data does not match %dx%d",
			ErrInvalidInput, s.Width, s.Height)
	}
	k := len(s.Palette)
	if k < 1 || k > MaxClusters || len(s.Counts) != k || len(s.Ranks) != k {
		return fmt.Errorf("%w: snapshot has inconsistent cluster metadata", ErrInvalidInput)
	}
	ranked := make([]bool, k)
	for _, rank := range s.Ranks {
		if rank < 0 || rank >= k || ranked[rank] {
			return fmt.Errorf("%w: snapshot ranks are not a permutation", ErrInvalidInput)
		}
		ranked[rank] = true
	}
	labels := &imageutil.GrayImage{Gray: &image.Gray{
		Pix:    s.Labels,
		Stride: s.Width,
		Rect:   image.Rect(0, 0, s.Width, s.Height),
	}}
	hist := labels.Histogram()
	for l := k; l < len(hist); l++ {
		if hist[l] > 0 {
			return fmt.Errorf("%w: snapshot label %d out of range", ErrInvalidInput, l)
		}
	}
	for id, count := range s.Counts {
		if count != hist[id] {
			return fmt.Errorf("%w: snapshot count %d for cluster %d, labels hold %d",
				ErrInvalidInput, count, id, hist[id])
		}
	}
	return nil
}
