package exporter

import (
	"fmt"
	"io"
	"sort"
)

// Format describes one download format of the filtered view.
type Format struct {
	Name        string
	Extension   string
	ContentType string
	write       func(w io.Writer, options WriteOptions) error
}

// Write renders headers and records in this format.
func (f Format) Write(w io.Writer, headers []string, records [][]string) error {
	return f.write(w, WriteOptions{Headers: headers, Records: records, BOMPrefix: f.Name == "csv"})
}

// Filename returns the download file name for a base name.
func (f Format) Filename(base string) string {
	return fmt.Sprintf("%s.%s", base, f.Extension)
}

var formats = map[string]Format{
	"csv": {
		Name:        "csv",
		Extension:   "csv",
		ContentType: "text/csv; charset=utf-8",
		write:       WriteCSV,
	},
	"xlsx": {
		Name:        "xlsx",
		Extension:   "xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		write:       WriteXLSX,
	},
}

// Lookup returns the format registered under name.
func Lookup(name string) (Format, bool) {
	f, ok := formats[name]
	return f, ok
}

// Names lists the registered format names in sorted order.
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
