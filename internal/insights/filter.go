// Package insights implements the dashboard's query logic over a loaded
// snapshot: filtering and paging the master registry, building the filter
// dropdowns, and assembling the per-company detail view. Everything here is
// a pure function of its inputs; the snapshot is never modified.
package insights

import (
	"strings"

	"mcainsights/internal/dataset"
)

// All is the dropdown sentinel meaning "no constraint on this dimension".
const All = "All"

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 500

// Criteria are the user's filter inputs.
type Criteria struct {
	Search string
	Region string
	Status string
}

// Result is a filtered view of the master dataset.
type Result struct {
	// Rows are master row indices in source order.
	Rows    []int
	Matched int
	Total   int
}

// Empty reports whether no rows matched.
func (r Result) Empty() bool { return r.Matched == 0 }

func unconstrained(v string) bool { return v == "" || v == All }

// Filter narrows the master dataset by search text, then region, then
// status. Search matches identifier or company name as a case-insensitive
// substring; absent values never match. A region or status constraint is
// ignored when the column does not exist.
func Filter(snap *dataset.Snapshot, c Criteria) Result {
	needle := strings.ToLower(c.Search)
	useRegion := !unconstrained(c.Region) && snap.HasRegion()
	useStatus := !unconstrained(c.Status) && snap.HasStatus()

	res := Result{Total: len(snap.Companies)}
	for _, rec := range snap.Companies {
		if needle != "" && !containsFold(rec.Identifier, needle) && !containsFold(rec.CompanyName, needle) {
			continue
		}
		if useRegion && rec.RegionCode != c.Region {
			continue
		}
		if useStatus && rec.Status != c.Status {
			continue
		}
		res.Rows = append(res.Rows, rec.Row)
	}
	res.Matched = len(res.Rows)
	return res
}

func containsFold(value, lowerNeedle string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), lowerNeedle)
}

// Page is one page of a filtered view.
type Page struct {
	Number     int
	TotalPages int
	Size       int
	Rows       []int
}

// PageCount returns floor(n/size)+1. This over-counts by one trailing empty
// page when n is an exact multiple of size (1000 rows → 3 pages); callers
// rely on that numbering.
func PageCount(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return max(1, n/size+1)
}

// Paginate slices the result into the requested page, clamping the page
// number to [1, PageCount].
func Paginate(res Result, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := PageCount(len(res.Rows), size)
	page = min(max(page, 1), total)

	start := min((page-1)*size, len(res.Rows))
	end := min(start+size, len(res.Rows))
	return Page{
		Number:     page,
		TotalPages: total,
		Size:       size,
		Rows:       res.Rows[start:end],
	}
}

// Identifiers returns the distinct non-absent identifiers of a result in
// row order, as offered by the detail selector.
func Identifiers(snap *dataset.Snapshot, res Result) []string {
	seen := make(map[string]struct{}, len(res.Rows))
	var ids []string
	for _, row := range res.Rows {
		id := snap.Companies[row].Identifier
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Select picks the requested identifier if it is offered, else the first
// offered one. It returns "" when nothing is offered.
func Select(ids []string, requested string) string {
	if len(ids) == 0 {
		return ""
	}
	for _, id := range ids {
		if id == requested {
			return id
		}
	}
	return ids[0]
}
