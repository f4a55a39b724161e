package insights

import (
	"sort"

	"mcainsights/internal/dataset"
)

// Options are the values offered by the region and status dropdowns. A nil
// slice means the dropdown is hidden and its filter is fixed to All.
type Options struct {
	Regions  []string
	Statuses []string
}

// FilterOptions collects the sorted distinct non-absent region and status
// values, each prefixed with the All sentinel.
func FilterOptions(snap *dataset.Snapshot) Options {
	var opts Options
	if snap.HasRegion() {
		opts.Regions = distinct(snap, func(i int) string { return snap.Companies[i].RegionCode })
	}
	if snap.HasStatus() {
		opts.Statuses = distinct(snap, func(i int) string { return snap.Companies[i].Status })
	}
	return opts
}

func distinct(snap *dataset.Snapshot, value func(int) string) []string {
	set := make(map[string]struct{})
	for i := range snap.Companies {
		if v := value(i); v != "" {
			set[v] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{All}, values...)
}
