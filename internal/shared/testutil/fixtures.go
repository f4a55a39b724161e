package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Small datasets in the on-disk shape the loader expects.
const (
	MasterCSV = "CIN,Company Name,State Code,Status,Registration Date\n" +
		"A1,Alpha Ltd,MH,Active,15-Jan-2020\n" +
		"A2,Beta Pvt,KA,Struck Off,3-Mar-2021\n"
	ChangeLogCSV = "cin,change_type,date\nA1,Update,2024-01-01\n"
	EnrichedCSV  = "CIN,Field,Value\nA1,director_name,X\nA1,registered_address,Mumbai\n"
)

// DatasetFiles are the paths written by WriteDatasets.
type DatasetFiles struct {
	Dir       string
	Master    string
	ChangeLog string
	Enriched  string
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

// WriteDatasets writes the three datasets into a fresh temp directory. An
// empty master leaves mca_master.csv absent; its path is still returned.
func WriteDatasets(t testing.TB, master, changeLog, enriched string) DatasetFiles {
	t.Helper()
	dir := t.TempDir()
	files := DatasetFiles{
		Dir:       dir,
		Master:    filepath.Join(dir, "mca_master.csv"),
		ChangeLog: WriteFile(t, dir, "log.csv", []byte(changeLog)),
		Enriched:  WriteFile(t, dir, "Enriched.csv", []byte(enriched)),
	}
	if master != "" {
		WriteFile(t, dir, "mca_master.csv", []byte(master))
	}
	return files
}
