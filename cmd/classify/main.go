// Command classify reduces images to a small set of representative colors
// and writes the classification products next to each other in an output
// directory.
//
// Usage:
//
//	classify -k 8 -outdir out -recolor -palette photo1.jpg photo2.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wbrown/colorclass"
	"github.com/wbrown/colorclass/imageutil"
)

type options struct {
	k         int
	outDir    string
	maxWidth  int
	blur      bool
	sharpen   bool
	recolor   bool
	labels    bool
	fullRes   bool
	palette   bool
	swatch    bool
	byRank    bool
	snapshot  bool
	transfer  string
	jobs      int
	maxPasses int
}

func main() {
	var opts options
	flag.IntVar(&opts.k, "k", 8,
		"Number of color clusters (1-256)")
	flag.StringVar(&opts.outDir, "outdir", ".",
		"Directory for output files")
	flag.IntVar(&opts.maxWidth, "maxwidth", 0,
		"Downscale inputs wider than this before clustering, 0 to disable")
	flag.BoolVar(&opts.blur, "blur", false,
		"Apply a 5x5 Gaussian blur before clustering")
	flag.BoolVar(&opts.sharpen, "sharpen", false,
		"Sharpen before clustering")
	flag.BoolVar(&opts.recolor, "recolor", true,
		"Write <name>_recolor.png with every pixel set to its cluster color")
	flag.BoolVar(&opts.labels, "labels", false,
		"Write <name>_labels.png, one gray level per cluster id")
	flag.BoolVar(&opts.fullRes, "fullres", false,
		"Scale the label image back to the input size")
	flag.BoolVar(&opts.palette, "palette", true,
		"Write <name>_palette.json")
	flag.BoolVar(&opts.swatch, "swatch", false,
		"Write <name>_swatch.png")
	flag.BoolVar(&opts.byRank, "byrank", false,
		"Order swatch tiles by cluster weight")
	flag.BoolVar(&opts.snapshot, "snapshot", false,
		"Write <name>.snap, a compressed classified raster")
	flag.StringVar(&opts.transfer, "transfer", "",
		"Reference image or .snap whose palette is transferred onto each input")
	flag.IntVar(&opts.jobs, "jobs", 4,
		"Number of images processed concurrently")
	flag.IntVar(&opts.maxPasses, "maxpasses", 0,
		"Bound on K-means passes, 0 to run to convergence")
	logJSON := flag.Bool("log-json", false,
		"Emit JSON logs")
	verbose := flag.Bool("v", false,
		"Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := colorclass.NewTextLogger(level)
	if *logJSON {
		logger = colorclass.NewJSONLogger(level)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Please provide one or more images as arguments")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if opts.k < 1 || opts.k > colorclass.MaxClusters {
		fmt.Printf("-k must be between 1 and %d\n", colorclass.MaxClusters)
		os.Exit(2)
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	if err := run(context.Background(), logger, opts, inputs); err != nil {
		logger.Error("classify failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *colorclass.Logger, opts options, inputs []string) error {
	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	metrics := &colorclass.BasicMetricsCollector{}
	classifier := colorclass.NewClassifier(
		colorclass.WithLogger(logger),
		colorclass.WithMetrics(metrics),
		colorclass.WithMaxPasses(opts.maxPasses),
	)

	var reference *colorclass.Raster
	if opts.transfer != "" {
		var err error
		reference, err = loadReference(classifier, opts)
		if err != nil {
			return err
		}
	}

	begin := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for _, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return processImage(classifier, logger, opts, reference, input)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats := metrics.GetStats()
	logger.Info("done",
		"images", len(inputs),
		"passes", stats.Passes,
		"reassignments", stats.Reassignments,
		"unconverged", stats.Unconverged,
		"avg_cluster_time", stats.AvgDuration,
		"elapsed", time.Since(begin))
	return nil
}

// loadReference returns the classified raster whose palette -transfer
// applies. A .snap file is used as is; any other image is clustered.
func loadReference(c *colorclass.Classifier, opts options) (*colorclass.Raster, error) {
	if strings.EqualFold(filepath.Ext(opts.transfer), ".snap") {
		return colorclass.LoadSnapshot(opts.transfer)
	}
	r, _, err := loadPrepared(opts, opts.transfer)
	if err != nil {
		return nil, err
	}
	if err := c.Cluster(r, opts.k); err != nil {
		return nil, fmt.Errorf("error clustering %s: %w", opts.transfer, err)
	}
	return r, nil
}

// loadPrepared loads an image and applies the pre-clustering filters. It
// also returns the size of the image as loaded.
func loadPrepared(opts options, path string) (*colorclass.Raster, image.Point, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, image.Point{}, err
	}
	size := image.Pt(img.Width(), img.Height())
	if opts.maxWidth > 0 && img.Width() > opts.maxWidth {
		img = imageutil.ResizeToWidth(img, opts.maxWidth, imageutil.InterpolationArea)
	}
	if opts.blur {
		img = imageutil.GaussianBlur(img)
	}
	if opts.sharpen {
		img = imageutil.Sharpen(img)
	}
	return colorclass.NewRaster(img), size, nil
}

func processImage(c *colorclass.Classifier, logger *colorclass.Logger,
	opts options, reference *colorclass.Raster, input string) error {
	start := time.Now()
	r, size, err := loadPrepared(opts, input)
	if err != nil {
		return err
	}

	if err := c.Cluster(r, opts.k); err != nil {
		return fmt.Errorf("error clustering %s: %w", input, err)
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	out := func(suffix string) string {
		return filepath.Join(opts.outDir, base+suffix)
	}

	if opts.recolor {
		img, err := r.Recolor()
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(img.RGBA, out("_recolor.png")); err != nil {
			return err
		}
	}
	if opts.labels {
		labels := r.Labels()
		if opts.fullRes && size != labels.Bounds().Size() {
			labels = imageutil.ResizeGray(labels, size.X, size.Y, imageutil.InterpolationNearest)
		}
		if err := imageutil.SaveGrayImage(labels, out("_labels.png")); err != nil {
			return err
		}
	}
	if opts.palette {
		if err := colorclass.SavePaletteJSON(r, out("_palette.json")); err != nil {
			return err
		}
	}
	if opts.swatch {
		img, err := colorclass.RenderSwatch(r, colorclass.SwatchOptions{ByRank: opts.byRank})
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(img.RGBA, out("_swatch.png")); err != nil {
			return err
		}
	}
	if opts.snapshot {
		if err := colorclass.SaveSnapshot(r, out(".snap")); err != nil {
			return err
		}
	}
	if reference != nil {
		img, err := colorclass.TransferColors(r, reference)
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(img.RGBA, out("_transfer.png")); err != nil {
			return err
		}
	}

	light, err := colorclass.AtmosphericLight(r)
	if err != nil {
		return err
	}
	logger.WithRaster(r).Info("classified",
		"input", input,
		"k", r.NumClusters(),
		"brightest", colorclass.HexColor(light),
		"elapsed", time.Since(start))
	return nil
}
