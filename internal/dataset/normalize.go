package dataset

import "strings"

// IdentifierColumn is the canonical join key shared by all datasets.
const IdentifierColumn = "cin"

// identifierAlias is accepted verbatim before falling back to substring search.
const identifierAlias = "identifier"

// IdentifierSource records how a table obtained its identifier column.
type IdentifierSource int

const (
	// IdentifierNative means the table already had a "cin" column.
	IdentifierNative IdentifierSource = iota
	// IdentifierRenamed means another column was renamed to "cin".
	IdentifierRenamed
	// IdentifierSynthesized means no candidate existed and an all-absent
	// column was added. Rows of such a table never match an identifier.
	IdentifierSynthesized
)

func (s IdentifierSource) String() string {
	switch s {
	case IdentifierNative:
		return "native"
	case IdentifierRenamed:
		return "renamed"
	case IdentifierSynthesized:
		return "synthesized"
	default:
		return "unknown"
	}
}

// NormalizeColumnName trims, replaces spaces with underscores and lowercases.
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// NormalizeColumns applies NormalizeColumnName to every header cell.
func NormalizeColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = NormalizeColumnName(c)
	}
	return out
}

// EnsureIdentifier guarantees t has a "cin" column and records the outcome
// on the table.
func EnsureIdentifier(t *Table) IdentifierSource {
	switch {
	case t.Has(IdentifierColumn):
		t.Identifier = IdentifierNative
	case t.Has(identifierAlias):
		t.rename(identifierAlias, IdentifierColumn)
		t.Identifier = IdentifierRenamed
	default:
		t.Identifier = IdentifierSynthesized
		for _, c := range t.Columns {
			if strings.Contains(strings.ToLower(c), IdentifierColumn) {
				t.rename(c, IdentifierColumn)
				t.Identifier = IdentifierRenamed
				break
			}
		}
		if t.Identifier == IdentifierSynthesized {
			t.addColumn(IdentifierColumn)
		}
	}
	return t.Identifier
}
