package forecast

import "sort"

// SortNorthToSouth returns a new slice with records ordered by descending
// latitude. The sort is stable: equal latitudes keep their original relative
// order, so the same input always produces bit-identical output.
func SortNorthToSouth(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Latitude > sorted[j].Latitude
	})
	return sorted
}

// NewSet resolves records into an ordered Set for the given effective date.
func NewSet(effectiveDate string, records []Record) Set {
	return Set{EffectiveDate: effectiveDate, Records: SortNorthToSouth(records)}
}
