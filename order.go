package colorclass

import "sort"

// OrderClusters ranks centers by descending weight, storing the rank in
// SortClass (0 is the heaviest cluster), and leaves the slice sorted by
// ascending OrigClass so that position i still holds cluster i.
//
// Clusters of equal weight keep ascending OrigClass order among
// themselves; callers should not rely on that.
func OrderClusters(centers []Center) {
	sort.SliceStable(centers, func(i, j int) bool {
		return centers[i].Weight > centers[j].Weight
	})
	for rank := range centers {
		centers[rank].SortClass = rank
	}
	sort.SliceStable(centers, func(i, j int) bool {
		return centers[i].OrigClass < centers[j].OrigClass
	})
}
