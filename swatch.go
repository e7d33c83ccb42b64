package colorclass

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wbrown/colorclass/imageutil"
)

// SwatchOptions controls RenderSwatch.
type SwatchOptions struct {
	TileWidth  int     // default 220
	TileHeight int     // default 40
	FontSize   float64 // points at 72 DPI, default 14
	ByRank     bool    // order tiles heaviest first instead of by id
}

var loadSwatchFont = sync.OnceValues(func() (*truetype.Font, error) {
	return freetype.ParseFont(goregular.TTF)
})

// RenderSwatch draws the palette of a classified raster as a column of
// tiles, one per cluster, each labelled with the cluster id, its hex
// color and its share of the pixels.
func RenderSwatch(r *Raster, opts SwatchOptions) (*imageutil.RGBAImage, error) {
	if err := r.requireClassified(); err != nil {
		return nil, err
	}
	if opts.TileWidth <= 0 {
		opts.TileWidth = 220
	}
	if opts.TileHeight <= 0 {
		opts.TileHeight = 40
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	ttf, err := loadSwatchFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	order := make([]int, len(r.palette))
	for id := range order {
		order[id] = id
	}
	if opts.ByRank {
		sort.SliceStable(order, func(i, j int) bool {
			return r.ranks[order[i]] < r.ranks[order[j]]
		})
	}

	total := 0
	for _, n := range r.counts {
		total += n
	}

	img := imageutil.NewRGBAImage(opts.TileWidth, opts.TileHeight*len(order))
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.RGBA)
	ctx.SetHinting(font.HintingFull)

	// Baseline roughly centred for cap-height glyphs.
	baseline := (opts.TileHeight + int(opts.FontSize*0.7)) / 2
	for row, id := range order {
		c := r.palette[id]
		tile := image.Rect(0, row*opts.TileHeight, opts.TileWidth, (row+1)*opts.TileHeight)
		draw.Draw(img.RGBA, tile, image.NewUniform(c.ToColor()), image.Point{}, draw.Src)

		ink := color.Color(color.White)
		if imageutil.Luminance(c) >= 128 {
			ink = color.Black
		}
		ctx.SetSrc(image.NewUniform(ink))

		share := 0.0
		if total > 0 {
			share = 100 * float64(r.counts[id]) / float64(total)
		}
		label := fmt.Sprintf("%d  %s  %.1f%%", id, HexColor(c), share)
		pt := freetype.Pt(8, tile.Min.Y+baseline)
		if _, err := ctx.DrawString(label, pt); err != nil {
			return nil, fmt.Errorf("failed to draw label: %w", err)
		}
	}
	return img, nil
}
