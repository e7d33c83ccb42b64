// Package colorclass reduces an RGB raster to a small palette of K
// representative colors and labels every pixel with its cluster.
//
// Clustering runs on a histogram of 5/6/5-bit quantized colors rather than
// on individual pixels: BuildColorTable collects the distinct quantized
// colors with their pixel counts, KMeans runs a weighted K-means with
// incremental centroid updates until a pass reassigns nothing,
// OrderClusters ranks the clusters by weight, and the labels are written
// back onto the Raster. Cluster does all four steps:
//
//	r, err := colorclass.LoadRaster("photo.png")
//	if err != nil {
//		return err
//	}
//	if err := colorclass.Cluster(r, 8); err != nil {
//		return err
//	}
//	palette, counts := r.Palette(), r.Counts()
//
// Everything is deterministic: the same raster and K always yield the same
// palette and labels.
package colorclass
