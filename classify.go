package colorclass

import (
	"fmt"
	"time"

	"github.com/wbrown/colorclass/imageutil"
)

// Classifier clusters rasters. Its configuration is fixed at construction,
// so one Classifier may be shared by goroutines working on different
// rasters.
type Classifier struct {
	logger    *Logger
	metrics   MetricsCollector
	maxPasses int
}

// Option is a functional option for configuring a Classifier.
type Option func(*Classifier)

// NewClassifier creates a Classifier with the given options.
// Default values: NoopLogger, NoopMetricsCollector, no pass limit.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(c *Classifier) {
		if l == nil {
			l = NoopLogger()
		}
		c.logger = l
	}
}

// WithMetrics sets the metrics collector. A nil collector disables
// metrics.
func WithMetrics(m MetricsCollector) Option {
	return func(c *Classifier) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		c.metrics = m
	}
}

// WithMaxPasses bounds the number of K-means passes. Zero, the default,
// iterates until a pass reassigns nothing.
func WithMaxPasses(n int) Option {
	return func(c *Classifier) {
		if n < 0 {
			n = 0
		}
		c.maxPasses = n
	}
}

var defaultClassifier = NewClassifier()

// Cluster classifies r into k colors with the default Classifier.
func Cluster(r *Raster, k int) error {
	return defaultClassifier.Cluster(r, k)
}

// Cluster reduces r to k representative colors and labels every pixel.
// On success r's label channel, palette, counts and ranks are overwritten
// and its format becomes FormatClassified. On failure r is left untouched.
func (c *Classifier) Cluster(r *Raster, k int) error {
	start := time.Now()
	colors, stats, err := c.cluster(r, k)
	duration := time.Since(start)
	c.metrics.RecordCluster(k, colors, stats, duration, err)

	log := c.logger.WithRaster(r)
	if err != nil {
		log.Debug("cluster failed", "k", k, "error", err)
		return err
	}
	log.Debug("clustered raster",
		"k", k,
		"colors", colors,
		"passes", stats.Passes,
		"reassignments", stats.Reassignments,
		"converged", stats.Converged,
		"duration", duration)
	return nil
}

func (c *Classifier) cluster(r *Raster, k int) (int, Stats, error) {
	if err := r.validate(); err != nil {
		return 0, Stats{}, err
	}
	if k < 1 || k > MaxClusters {
		return 0, Stats{}, fmt.Errorf("%w: k=%d, want 1..%d", ErrInvalidK, k, MaxClusters)
	}

	table, err := BuildColorTable(r.img)
	if err != nil {
		return 0, Stats{}, err
	}
	centers, stats, err := runKMeans(table, k, c.maxPasses)
	if err != nil {
		return table.Len(), stats, err
	}
	OrderClusters(centers)
	backProject(r, table, centers)
	return table.Len(), stats, nil
}

// backProject maps every quantized color of table to its cluster and
// writes the labels and palette metadata onto r. centers must be indexed
// by OrigClass, which is also the id written to the label channel.
func backProject(r *Raster, table *ColorTable, centers []Center) {
	lut := make([]uint8, NumKeys)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		lut[QuantKey(row.Color)] = uint8(row.Class)
	}

	width, height := r.Width(), r.Height()
	labels := r.labels
	if labels == nil || labels.Width() != width || labels.Height() != height {
		labels = imageutil.NewGrayImage(width, height)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			labels.SetGrayValue(x, y, lut[QuantKey(r.img.GetRGB(x, y))])
		}
	}

	k := len(centers)
	palette := make([]RGB, k)
	counts := make([]int, k)
	ranks := make([]int, k)
	for id, c := range centers {
		palette[id] = c.Color()
		counts[id] = int(c.Weight + 0.5)
		ranks[id] = c.SortClass
	}

	r.labels = labels
	r.palette = palette
	r.counts = counts
	r.ranks = ranks
	r.format = FormatClassified
}
