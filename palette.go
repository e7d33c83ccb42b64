package colorclass

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteEntry describes one cluster of a classified raster.
type PaletteEntry struct {
	ID    int    `json:"id"`
	Rank  int    `json:"rank"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// PaletteFile is the JSON document written for a classified raster.
// Clusters are listed by ascending id.
type PaletteFile struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Clusters []PaletteEntry `json:"clusters"`
}

// HexColor formats c as "#rrggbb".
func HexColor(c RGB) string {
	col, _ := colorful.MakeColor(c.ToColor())
	return col.Hex()
}

// ParseHexColor parses "#rrggbb" (or "#rgb").
func ParseHexColor(s string) (RGB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("error parsing color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// NewPaletteFile describes the classification of r.
func NewPaletteFile(r *Raster) (*PaletteFile, error) {
	if err := r.requireClassified(); err != nil {
		return nil, err
	}
	pf := &PaletteFile{
		Width:    r.Width(),
		Height:   r.Height(),
		Clusters: make([]PaletteEntry, len(r.palette)),
	}
	for id, c := range r.palette {
		pf.Clusters[id] = PaletteEntry{
			ID:    id,
			Rank:  r.ranks[id],
			Color: HexColor(c),
			Count: r.counts[id],
		}
	}
	return pf, nil
}

// Colors returns the entry colors in file order.
func (pf *PaletteFile) Colors() ([]RGB, error) {
	colors := make([]RGB, len(pf.Clusters))
	for i, e := range pf.Clusters {
		c, err := ParseHexColor(e.Color)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

// ByRank returns the entries ordered from heaviest to lightest cluster.
func (pf *PaletteFile) ByRank() []PaletteEntry {
	entries := append([]PaletteEntry(nil), pf.Clusters...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})
	return entries
}

// ColorMap returns the palette as a flat id -> "#rrggbb" map, the shape
// used by simple palette files.
func (pf *PaletteFile) ColorMap() map[string]string {
	m := make(map[string]string, len(pf.Clusters))
	for _, e := range pf.Clusters {
		m[strconv.Itoa(e.ID)] = e.Color
	}
	return m
}

// WritePaletteJSON writes the palette of r as indented JSON.
func WritePaletteJSON(w io.Writer, r *Raster) error {
	pf, err := NewPaletteFile(r)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pf)
}

// SavePaletteJSON writes the palette of r to path.
func SavePaletteJSON(r *Raster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WritePaletteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPaletteJSON decodes a palette document and checks that every color
// parses.
func ReadPaletteJSON(rd io.Reader) (*PaletteFile, error) {
	var pf PaletteFile
	if err := json.NewDecoder(rd).Decode(&pf); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}
	if _, err := pf.Colors(); err != nil {
		return nil, err
	}
	return &pf, nil
}
