package dataset

import (
	"testing"

	"mcainsights/internal/shared/testutil"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	return testutil.WriteFile(t, dir, name, content)
}

// writeSources writes the three CSV sources and returns matching Sources.
func writeSources(t *testing.T, master, changeLog, enriched string) Sources {
	t.Helper()
	files := testutil.WriteDatasets(t, master, changeLog, enriched)
	return Sources{
		MasterPath:    files.Master,
		ChangeLogPath: files.ChangeLog,
		EnrichedPath:  files.Enriched,
		Encoding:      "latin1",
	}
}
