package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mcainsights/internal/dataset"
	"mcainsights/pkg/contracts/domain"
)

// Informational and warning messages of the detail view.
const (
	MsgNoEnrichedData   = "No enriched data found for this company."
	MsgNoDirectors      = "No director data available."
	MsgNoChangeHistory  = "No change history found for this company."
	WarnNoChangeLogKey  = "Change log has no 'cin' column."
	directorField       = "director_name"
	registeredAddrField = "registered_address"
)

// LookupEnriched assembles the address and director list for a company.
func LookupEnriched(snap *dataset.Snapshot, cin string) domain.EnrichedDetail {
	detail := domain.EnrichedDetail{
		Address:   domain.AddressNotAvailable,
		Directors: []string{},
	}
	attrs := snap.AttributesFor(cin)
	if cin == "" || len(attrs) == 0 {
		detail.Message = MsgNoEnrichedData
		return detail
	}
	detail.Found = true

	hasField := snap.Enriched.Has(dataset.ColumnField)
	hasValue := snap.Enriched.Has(dataset.ColumnValue)
	if hasField && hasValue {
		addressTaken := false
		for _, a := range attrs {
			field := strings.ToLower(a.Field)
			if field == directorField && a.Value != "" {
				detail.Directors = append(detail.Directors, a.Value)
			}
			if !addressTaken && strings.Contains(field, registeredAddrField) {
				// first matching row decides, even when its value is absent
				addressTaken = true
				if a.Value != "" {
					detail.Address = a.Value
				}
			}
		}
	}
	if len(detail.Directors) == 0 {
		detail.Message = MsgNoDirectors
	}
	return detail
}

// LookupHistory assembles the change history and timeline for a company.
// Defaults for a missing change_type or date column are applied to a fresh
// projection; the snapshot is left untouched. now is the placeholder date.
func LookupHistory(snap *dataset.Snapshot, cin string, now time.Time) domain.ChangeHistory {
	history := domain.ChangeHistory{Rows: []int{}, Events: []domain.DisplayEvent{}}
	if snap.ChangeLog.Identifier == dataset.IdentifierSynthesized {
		history.Warning = WarnNoChangeLogKey
		return history
	}

	events := snap.EventsFor(cin)
	if cin == "" || len(events) == 0 {
		history.Message = MsgNoChangeHistory
		return history
	}

	hasType := snap.ChangeLog.Has(dataset.ColumnChangeType)
	hasDate := snap.ChangeLog.Has(dataset.ColumnDate)
	for _, e := range events {
		history.Rows = append(history.Rows, e.Row)
		history.Events = append(history.Events, projectEvent(e, hasType, hasDate, now))
	}
	history.Timeline = BuildTimeline(cin, history.Events)
	return history
}

func projectEvent(e domain.ChangeEvent, hasType, hasDate bool, now time.Time) domain.DisplayEvent {
	d := domain.DisplayEvent{Row: e.Row, ChangeType: e.ChangeType}
	if !hasType {
		d.ChangeType = domain.DefaultChangeType
	}
	switch {
	case !hasDate:
		d.Date, d.Dated = now, true
	case e.Date != nil:
		d.Date, d.Dated = *e.Date, true
	}
	return d
}

// BuildTimeline turns dated events into one zero-length interval each,
// grouped by change type. Categories are ordered by ascending event count,
// ties broken by first appearance.
func BuildTimeline(cin string, events []domain.DisplayEvent) *domain.Timeline {
	tl := &domain.Timeline{
		Title:      fmt.Sprintf("Timeline of Changes for %s", cin),
		Intervals:  []domain.TimelineInterval{},
		Categories: []domain.CategoryCount{},
	}
	position := make(map[string]int)
	for _, e := range events {
		if !e.Dated {
			continue
		}
		tl.Intervals = append(tl.Intervals, domain.TimelineInterval{
			Category: e.ChangeType,
			Start:    e.Date,
			End:      e.Date,
		})
		if i, ok := position[e.ChangeType]; ok {
			tl.Categories[i].Count++
			continue
		}
		position[e.ChangeType] = len(tl.Categories)
		tl.Categories = append(tl.Categories, domain.CategoryCount{Name: e.ChangeType, Count: 1})
	}
	sort.SliceStable(tl.Categories, func(i, j int) bool {
		return tl.Categories[i].Count < tl.Categories[j].Count
	})
	return tl
}
