// Package exporter writes the dashboard's filtered view as a download.
//
// Two formats are registered:
//
// CSV: encoding/csv output with a UTF-8 BOM for Excel compatibility.
//
// XLSX: a single "Companies" worksheet streamed through excelize.
//
// Example usage:
//
//	f, ok := exporter.Lookup("xlsx")
//	if !ok {
//		// unsupported format
//	}
//	w.Header().Set("Content-Type", f.ContentType)
//	err := f.Write(w, columns, rows)
package exporter
