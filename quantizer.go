package colorclass

import (
	"image"
	"image/color"
	"image/draw"
)

// Quantizer adapts a Classifier to image/draw.Quantizer, so it can be used
// wherever the standard library accepts one (for example gif.Options).
type Quantizer struct {
	Classifier *Classifier
}

var _ draw.Quantizer = Quantizer{}

// Quantize appends up to cap(p)-len(p) cluster colors of m to p. If p has
// no spare capacity, 256 colors are requested. Empty clusters are not
// appended. On error p is returned unchanged.
func (q Quantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	k := cap(p) - len(p)
	if k <= 0 {
		k = MaxClusters
	}
	if k > MaxClusters {
		k = MaxClusters
	}
	c := q.Classifier
	if c == nil {
		c = defaultClassifier
	}

	r := RasterFromImage(m)
	if err := c.Cluster(r, k); err != nil {
		return p
	}
	for id, col := range r.palette {
		if r.counts[id] > 0 {
			p = append(p, col.ToColor())
		}
	}
	return p
}
