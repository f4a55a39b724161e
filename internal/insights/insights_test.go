package insights

import (
	"testing"

	"mcainsights/internal/dataset"
)

// snapshotOf builds a snapshot from in-memory tables. A nil column list
// yields a table with no columns at all.
func snapshotOf(t *testing.T, master, changeLog, enriched [][]string) *dataset.Snapshot {
	t.Helper()
	return dataset.NewSnapshot(
		tableOf(dataset.NameMaster, master),
		tableOf(dataset.NameChangeLog, changeLog),
		tableOf(dataset.NameEnriched, enriched),
		"", nil,
	)
}

func tableOf(name string, data [][]string) *dataset.Table {
	if len(data) == 0 {
		return dataset.NewTable(name, []string{}, nil)
	}
	return dataset.NewTable(name, dataset.NormalizeColumns(data[0]), data[1:])
}

// sampleSnapshot is the two-company scenario used across tests.
func sampleSnapshot(t *testing.T) *dataset.Snapshot {
	return snapshotOf(t,
		[][]string{
			{"CIN", "Company Name", "State Code", "Status", "Registration Date"},
			{"A1", "Alpha Ltd", "MH", "Active", "15-Jan-2020"},
			{"A2", "Beta Pvt", "KA", "Struck Off", "bad"},
		},
		[][]string{
			{"cin", "change_type", "date"},
			{"A1", "Update", "2024-01-01"},
		},
		[][]string{
			{"cin", "field", "value"},
			{"A1", "director_name", "X"},
			{"A1", "Registered_Address", "Mumbai"},
		},
	)
}
