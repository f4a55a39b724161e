package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	snap := sampleSnapshot(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{"no criteria", Criteria{}, []int{0, 1}},
		{"all sentinels", Criteria{Region: All, Status: All}, []int{0, 1}},
		{"search by name case-insensitive", Criteria{Search: "alpha"}, []int{0}},
		{"search by identifier", Criteria{Search: "a2"}, []int{1}},
		{"search matches both", Criteria{Search: "a"}, []int{0, 1}},
		{"region", Criteria{Region: "KA"}, []int{1}},
		{"status", Criteria{Status: "Active"}, []int{0}},
		{"search and region disagree", Criteria{Search: "alpha", Region: "KA"}, nil},
		{"regex metacharacters are literal", Criteria{Search: ".*"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Filter(snap, tt.criteria)
			assert.Equal(t, tt.want, res.Rows)
			assert.Equal(t, len(tt.want), res.Matched)
			assert.Equal(t, 2, res.Total)
			assert.Equal(t, len(tt.want) == 0, res.Empty())
		})
	}
}

func TestFilterAllIsIdempotent(t *testing.T) {
	snap := sampleSnapshot(t)
	criteria := Criteria{Search: "ltd", Region: All, Status: All}

	first := Filter(snap, criteria)
	second := Filter(snap, criteria)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{0}, first.Rows)
}

func TestFilterIgnoresMissingColumns(t *testing.T) {
	snap := snapshotOf(t,
		[][]string{{"cin", "company_name"}, {"A1", "Alpha"}, {"A2", "Beta"}},
		nil, nil,
	)

	res := Filter(snap, Criteria{Region: "MH", Status: "Active"})
	assert.Equal(t, []int{0, 1}, res.Rows)
}

func TestFilterAbsentValuesNeverMatch(t *testing.T) {
	snap := snapshotOf(t,
		[][]string{{"cin", "company_name"}, {"A1", ""}, {"", "Gamma"}},
		nil, nil,
	)

	assert.Empty(t, Filter(snap, Criteria{Search: "nan"}).Rows)
	assert.Equal(t, []int{1}, Filter(snap, Criteria{Search: "gam"}).Rows)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		n    int
		size int
		want int
	}{
		{0, 500, 1},
		{1, 500, 1},
		{499, 500, 1},
		{500, 500, 2},
		{999, 500, 2},
		{1000, 500, 3},
		{1001, 500, 3},
		{10, 0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(tt.n, tt.size))
		})
	}
}

func TestPaginateCoversFilteredSet(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 23} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			res := Result{Matched: n, Total: n}
			for i := 0; i < n; i++ {
				res.Rows = append(res.Rows, i)
			}

			var all []int
			total := PageCount(n, 5)
			for p := 1; p <= total; p++ {
				page := Paginate(res, p, 5)
				assert.Equal(t, p, page.Number)
				assert.Equal(t, total, page.TotalPages)
				assert.LessOrEqual(t, len(page.Rows), 5)
				all = append(all, page.Rows...)
			}
			assert.Equal(t, res.Rows, all)
		})
	}
}

func TestPaginateTrailingEmptyPage(t *testing.T) {
	res := Result{Rows: make([]int, 1000), Matched: 1000}

	page := Paginate(res, 3, DefaultPageSize)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.Empty(t, page.Rows)
}

func TestPaginateClampsPageNumber(t *testing.T) {
	res := Result{Rows: []int{0, 1, 2}, Matched: 3}

	assert.Equal(t, 1, Paginate(res, 0, 2).Number)
	assert.Equal(t, 1, Paginate(res, -4, 2).Number)
	assert.Equal(t, 2, Paginate(res, 99, 2).Number)
	assert.Equal(t, []int{2}, Paginate(res, 99, 2).Rows)
}

func TestIdentifiersAndSelect(t *testing.T) {
	snap := snapshotOf(t,
		[][]string{{"cin", "company_name"}, {"B", "b"}, {"", "none"}, {"A", "a"}, {"B", "b again"}},
		nil, nil,
	)

	ids := Identifiers(snap, Filter(snap, Criteria{}))
	assert.Equal(t, []string{"B", "A"}, ids)

	assert.Equal(t, "A", Select(ids, "A"))
	assert.Equal(t, "B", Select(ids, "Z"))
	assert.Equal(t, "B", Select(ids, ""))
	assert.Equal(t, "", Select(nil, "A"))
}

func TestFilterOptions(t *testing.T) {
	snap := snapshotOf(t,
		[][]string{
			{"cin", "state_code", "status"},
			{"A1", "MH", "Active"},
			{"A2", "KA", ""},
			{"A3", "MH", "Active"},
		},
		nil, nil,
	)

	opts := FilterOptions(snap)
	assert.Equal(t, []string{All, "KA", "MH"}, opts.Regions)
	assert.Equal(t, []string{All, "Active"}, opts.Statuses)
}

func TestFilterOptionsHiddenWithoutColumns(t *testing.T) {
	snap := snapshotOf(t, [][]string{{"cin"}, {"A1"}}, nil, nil)

	opts := FilterOptions(snap)
	assert.Nil(t, opts.Regions)
	assert.Nil(t, opts.Statuses)
}

func TestFilterOptionsRegionFallback(t *testing.T) {
	snap := snapshotOf(t, [][]string{{"cin", "region_code"}, {"A1", "North"}}, nil, nil)
	require.True(t, snap.HasRegion())
	assert.Equal(t, []string{All, "North"}, FilterOptions(snap).Regions)
	assert.Equal(t, []int{0}, Filter(snap, Criteria{Region: "North"}).Rows)
}
