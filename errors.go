package colorclass

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed rasters (nil, no pixels,
	// unknown format tag) and malformed scratch tables. Every other input
	// error wraps it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidK is returned when the requested cluster count is outside
	// 1..MaxClusters.
	ErrInvalidK = fmt.Errorf("%w: cluster count out of range", ErrInvalidInput)

	// ErrSchema is returned when a color table does not have the
	// r, g, b, weight, class column layout.
	ErrSchema = fmt.Errorf("%w: color table schema mismatch", ErrInvalidInput)

	// ErrNotClassified is returned by consumers that need the label channel
	// of a raster that has not been clustered.
	ErrNotClassified = errors.New("raster is not classified")
)

// ErrClusterOutOfRange indicates a cluster id that does not exist on a
// classified raster.
type ErrClusterOutOfRange struct {
	ID          int
	NumClusters int
}

func (e *ErrClusterOutOfRange) Error() string {
	return fmt.Sprintf("cluster %d out of range [0, %d)", e.ID, e.NumClusters)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ErrClusterOutOfRange) Is(target error) bool {
	return target == ErrInvalidInput
}
