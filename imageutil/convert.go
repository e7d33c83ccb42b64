package imageutil

// Luminance returns the BT.601 luma of c,
// Y = 0.299*R + 0.587*G + 0.114*B, rounded to the nearest integer.
func Luminance(c RGB) uint8 {
	// Weights scaled by 1000; they sum to 1000 so the result fits a byte.
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000)
}
