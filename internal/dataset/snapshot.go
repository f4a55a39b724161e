package dataset

import (
	"strings"
	"time"

	"mcainsights/pkg/contracts/domain"
)

// Well-known column names after normalization.
const (
	ColumnCompanyName      = "company_name"
	ColumnStatus           = "status"
	ColumnRegistrationDate = "registration_date"
	ColumnField            = "field"
	ColumnValue            = "value"
	ColumnChangeType       = "change_type"
	ColumnDate             = "date"
)

// DefaultRegionColumns are tried in order to find the region filter column.
var DefaultRegionColumns = []string{"state_code", "region_code"}

// changeDateLayouts are tried in order when parsing change-log dates.
var changeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2-Jan-2006",
	"02/01/2006",
}

// Snapshot is the read-only, process-wide view of the three datasets.
// It is built once and shared by reference; nothing mutates it afterwards.
type Snapshot struct {
	Master    *Table
	ChangeLog *Table
	Enriched  *Table

	Companies  []domain.MasterRecord
	Attributes []domain.EnrichedAttribute
	Events     []domain.ChangeEvent

	// RegionColumn is the master column used for the region filter, or "".
	RegionColumn string
	LoadedAt     time.Time

	attributesByID map[string][]int
	eventsByID     map[string][]int
}

// HasRegion reports whether the master dataset has a region column.
func (s *Snapshot) HasRegion() bool { return s.RegionColumn != "" }

// HasStatus reports whether the master dataset has a status column.
func (s *Snapshot) HasStatus() bool { return s.Master.Has(ColumnStatus) }

// AttributesFor returns the enriched rows for an identifier in source order.
func (s *Snapshot) AttributesFor(cin string) []domain.EnrichedAttribute {
	idx := s.attributesByID[cin]
	out := make([]domain.EnrichedAttribute, len(idx))
	for i, j := range idx {
		out[i] = s.Attributes[j]
	}
	return out
}

// EventsFor returns the change-log rows for an identifier in source order.
func (s *Snapshot) EventsFor(cin string) []domain.ChangeEvent {
	idx := s.eventsByID[cin]
	out := make([]domain.ChangeEvent, len(idx))
	for i, j := range idx {
		out[i] = s.Events[j]
	}
	return out
}

// Rows reports row counts per dataset.
func (s *Snapshot) Rows() map[string]int {
	return map[string]int{
		s.Master.Name:    s.Master.Len(),
		s.ChangeLog.Name: s.ChangeLog.Len(),
		s.Enriched.Name:  s.Enriched.Len(),
	}
}

// NewSnapshot normalizes identifiers, parses the registration date and
// builds the typed records. The tables are owned by the snapshot afterwards.
func NewSnapshot(master, changeLog, enriched *Table, dateLayout string, regionColumns []string) *Snapshot {
	for _, t := range []*Table{master, changeLog, enriched} {
		EnsureIdentifier(t)
	}
	if len(regionColumns) == 0 {
		regionColumns = DefaultRegionColumns
	}

	s := &Snapshot{
		Master:         master,
		ChangeLog:      changeLog,
		Enriched:       enriched,
		attributesByID: make(map[string][]int),
		eventsByID:     make(map[string][]int),
	}
	for _, c := range regionColumns {
		if master.Has(c) {
			s.RegionColumn = c
			break
		}
	}

	s.Companies = make([]domain.MasterRecord, master.Len())
	for i := range master.Rows {
		rec := domain.MasterRecord{
			Row:         i,
			Identifier:  master.Cell(i, IdentifierColumn),
			CompanyName: master.Cell(i, ColumnCompanyName),
			Status:      master.Cell(i, ColumnStatus),
		}
		if s.RegionColumn != "" {
			rec.RegionCode = master.Cell(i, s.RegionColumn)
		}
		if master.Has(ColumnRegistrationDate) {
			// unparseable dates become absent, in the table as well
			if d, ok := ParseRegistrationDate(master.Cell(i, ColumnRegistrationDate), dateLayout); ok {
				rec.RegistrationDate = &d
				master.setCell(i, ColumnRegistrationDate, d.Format("2006-01-02"))
			} else {
				master.setCell(i, ColumnRegistrationDate, "")
			}
		}
		s.Companies[i] = rec
	}

	s.Attributes = make([]domain.EnrichedAttribute, enriched.Len())
	for i := range enriched.Rows {
		a := domain.EnrichedAttribute{
			Row:        i,
			Identifier: enriched.Cell(i, IdentifierColumn),
			Field:      enriched.Cell(i, ColumnField),
			Value:      enriched.Cell(i, ColumnValue),
		}
		s.Attributes[i] = a
		if a.Identifier != "" {
			s.attributesByID[a.Identifier] = append(s.attributesByID[a.Identifier], i)
		}
	}

	s.Events = make([]domain.ChangeEvent, changeLog.Len())
	for i := range changeLog.Rows {
		e := domain.ChangeEvent{
			Row:        i,
			Identifier: changeLog.Cell(i, IdentifierColumn),
			ChangeType: changeLog.Cell(i, ColumnChangeType),
		}
		if d, ok := ParseChangeDate(changeLog.Cell(i, ColumnDate)); ok {
			e.Date = &d
		}
		s.Events[i] = e
		if e.Identifier != "" {
			s.eventsByID[e.Identifier] = append(s.eventsByID[e.Identifier], i)
		}
	}

	return s
}

// ParseRegistrationDate parses a master registration date such as
// "15-Jan-2020". Empty or non-conforming values report false.
func ParseRegistrationDate(value, layout string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if layout == "" {
		layout = "2-Jan-2006"
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseChangeDate parses a change-log date using the first matching layout.
func ParseChangeDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range changeDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
