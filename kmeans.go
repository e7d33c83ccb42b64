package colorclass

import (
	"fmt"
	"math"

	"github.com/wbrown/colorclass/imageutil"
)

// weightEpsilon is the mass below which a cluster is considered empty.
// Row weights are pixel counts, so any non-empty cluster weighs at least 1.
const weightEpsilon = 1e-6

// Center is one row of the cluster-center table: a weighted centroid, the
// total pixel mass assigned to it, the id it had during convergence and its
// rank by weight.
type Center struct {
	R, G, B   float64
	Weight    float64
	OrigClass int
	SortClass int
}

// Color returns the centroid rounded to 8-bit channels.
func (c Center) Color() RGB {
	return RGB{
		R: roundChannel(c.R),
		G: roundChannel(c.G),
		B: roundChannel(c.B),
	}
}

// Stats describes a K-means run.
type Stats struct {
	Passes        int
	Reassignments int
	Converged     bool
}

// KMeans clusters the rows of table into k groups and returns the converged
// centers indexed by cluster id. Each row's class column is updated in
// place to its final cluster. Iteration stops at the first full pass that
// reassigns no row.
func KMeans(table *ColorTable, k int) ([]Center, Stats, error) {
	return runKMeans(table, k, 0)
}

// runKMeans is KMeans with an optional pass limit; maxPasses <= 0 means
// iterate to the fixed point.
func runKMeans(table *ColorTable, k, maxPasses int) ([]Center, Stats, error) {
	if err := table.validate(); err != nil {
		return nil, Stats{}, err
	}
	if k < 1 {
		return nil, Stats{}, fmt.Errorf("%w: k=%d", ErrInvalidK, k)
	}
	e := newEngine(table.grid, k)
	stats := e.run(maxPasses)
	return e.centers, stats, nil
}

type engine struct {
	rows    *imageutil.Grid
	centers []Center
}

// newEngine stripes the rows across k clusters, row i going to
// (i*k)/n mod k, and computes each cluster's weighted mean.
func newEngine(rows *imageutil.Grid, k int) *engine {
	n := rows.Rows()
	centers := make([]Center, k)
	for j := range centers {
		centers[j].OrigClass = j
		centers[j].SortClass = j
	}

	sums := make([][3]float64, k)
	for i := 0; i < n; i++ {
		row := rows.Row(i)
		class := (i * k / n) % k
		row[colClass] = float64(class)
		w := row[colWeight]
		sums[class][0] += row[colR] * w
		sums[class][1] += row[colG] * w
		sums[class][2] += row[colB] * w
		centers[class].Weight += w
	}
	for j := range centers {
		if w := centers[j].Weight; w > weightEpsilon {
			centers[j].R = sums[j][0] / w
			centers[j].G = sums[j][1] / w
			centers[j].B = sums[j][2] / w
		}
	}
	return &engine{rows: rows, centers: centers}
}

func (e *engine) run(maxPasses int) Stats {
	var stats Stats
	for {
		changed := e.pass()
		stats.Passes++
		stats.Reassignments += changed
		if changed == 0 {
			stats.Converged = true
			return stats
		}
		if maxPasses > 0 && stats.Passes >= maxPasses {
			return stats
		}
	}
}

// pass visits every row once, moving it to its nearest center and
// updating both affected centers incrementally. It returns the number of
// rows that changed cluster.
func (e *engine) pass() int {
	changed := 0
	for i := 0; i < e.rows.Rows(); i++ {
		row := e.rows.Row(i)
		best := e.nearest(row)
		if cur := int(row[colClass]); best != cur {
			e.move(row, cur, best)
			changed++
		}
	}
	return changed
}

// nearest returns the id of the closest center by squared distance over
// r, g, b. Ties go to the lowest id.
func (e *engine) nearest(row []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for j := range e.centers {
		c := &e.centers[j]
		dr := row[colR] - c.R
		dg := row[colG] - c.G
		db := row[colB] - c.B
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best = j
			bestDist = d
		}
	}
	return best
}

// move reassigns row from cluster src to cluster dst, un-mixing its
// weighted contribution from src and mixing it into dst.
func (e *engine) move(row []float64, src, dst int) {
	rw := row[colWeight]

	from := &e.centers[src]
	if w := from.Weight - rw; w > weightEpsilon {
		from.R = (from.R*from.Weight - row[colR]*rw) / w
		from.G = (from.G*from.Weight - row[colG]*rw) / w
		from.B = (from.B*from.Weight - row[colB]*rw) / w
		from.Weight = w
	} else {
		// Emptied: keep the last centroid as a placeholder.
		from.Weight = 0
	}

	to := &e.centers[dst]
	w := to.Weight + rw
	to.R = (to.R*to.Weight + row[colR]*rw) / w
	to.G = (to.G*to.Weight + row[colG]*rw) / w
	to.B = (to.B*to.Weight + row[colB]*rw) / w
	to.Weight = w

	row[colClass] = float64(dst)
}

func roundChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
