package dataset

// Table is one loaded tabular source. Column names are normalized at load
// time; an empty cell is an absent value.
type Table struct {
	Name       string
	Columns    []string
	Rows       [][]string
	Identifier IdentifierSource

	index map[string]int
}

// NewTable builds a table and pads or truncates every row to the header width.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		cells := make([]string, len(columns))
		copy(cells, row)
		t.Rows[i] = cells
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		// first occurrence wins on duplicate names
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(column string) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[column]
	return i, ok
}

// Value returns the cell at row/column. ok is false when the column is
// missing or the cell is absent.
func (t *Table) Value(row int, column string) (string, bool) {
	i, ok := t.ColumnIndex(column)
	if !ok || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	v := t.Rows[row][i]
	return v, v != ""
}

// Cell returns the cell at row/column, or "" when absent.
func (t *Table) Cell(row int, column string) string {
	v, _ := t.Value(row, column)
	return v
}

// Select returns copies of the given rows in the given order.
func (t *Table) Select(rows []int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r < 0 || r >= len(t.Rows) {
			continue
		}
		out = append(out, append([]string(nil), t.Rows[r]...))
	}
	return out
}

func (t *Table) rename(from, to string) {
	i, ok := t.index[from]
	if !ok {
		return
	}
	t.Columns[i] = to
	t.reindex()
}

// addColumn appends a column of absent values.
func (t *Table) addColumn(name string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.reindex()
}

func (t *Table) setCell(row int, column string, value string) {
	if i, ok := t.index[column]; ok {
		t.Rows[row][i] = value
	}
}
