package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Companies"

// WriteXLSX streams headers and records into a single-sheet workbook and
// writes it to w. Cells are written as strings so identifiers keep their
// leading zeros.
func WriteXLSX(w io.Writer, options WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	row := 1
	if len(options.Headers) > 0 {
		if err := writeXLSXRow(sw, row, options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		row++
	}
	for i, record := range options.Records {
		if err := writeXLSXRow(sw, row, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
		row++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeXLSXRow(sw *excelize.StreamWriter, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return sw.SetRow(cell, cells)
}
