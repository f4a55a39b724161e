package dataset

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"latin1", false},
		{"ISO-8859-1", false},
		{"cp1252", false},
		{"utf-8", false},
		{"", false},
		{"ebcdic", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoding(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownEncoding))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}
}

func TestReadTableLatin1(t *testing.T) {
	dir := t.TempDir()
	// "Société" encoded as ISO-8859-1: é is the single byte 0xE9.
	content := []byte("CIN, Company Name ,State Code\nU1,Soci\xe9t\xe9 Ltd,MH\n")
	path := writeFile(t, dir, "master.csv", content)

	table, err := ReadTable(NameMaster, path, charmap.ISO8859_1)
	require.NoError(t, err)

	assert.Equal(t, []string{"cin", "company_name", "state_code"}, table.Columns)
	assert.Equal(t, "Société Ltd", table.Cell(0, "company_name"))
	assert.Equal(t, NameMaster, table.Name)
}

func TestReadTableRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log.csv", []byte("cin,change_type,date\nA1,Update\nA2,Update,2024-01-01,extra\n"))

	table, err := ReadTable(NameChangeLog, path, charmap.ISO8859_1)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "", table.Cell(0, "date"))
	assert.Equal(t, "2024-01-01", table.Cell(1, "date"))
}

func TestReadTableMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := ReadTable(NameEnriched, path, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, NameEnriched, loadErr.Dataset)
	assert.Equal(t, path, loadErr.Path)
}

func TestReadTableEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", nil)

	_, err := ReadTable(NameMaster, path, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnreadable))
	assert.Contains(t, err.Error(), "no columns to parse from file")
}

func TestReadTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"CIN", "Company Name", "Status"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"A1", "Alpha Ltd", "Active"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"A2", "Beta Pvt", "Struck Off"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(NameMaster, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cin", "company_name", "status"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Beta Pvt", table.Cell(1, "company_name"))
}

func TestReadTableMissingXLSX(t *testing.T) {
	_, err := ReadTable(NameMaster, filepath.Join(t.TempDir(), "gone.xlsx"), nil)
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}
