package domain

import "time"

// Display defaults used by the detail view.
const (
	AddressNotAvailable = "Not available"
	DefaultChangeType   = "Data Logged"
)

// EnrichedDetail is the enriched-attribute side of the company detail view.
type EnrichedDetail struct {
	Found     bool     `json:"found"`
	Address   string   `json:"address"`
	Directors []string `json:"directors"`
	Message   string   `json:"message,omitempty"`
}

// ChangeHistory is the change-log side of the company detail view.
// Warning is set when the change log cannot be joined at all; Message is
// informational (e.g. no rows for this company).
type ChangeHistory struct {
	Warning  string         `json:"warning,omitempty"`
	Message  string         `json:"message,omitempty"`
	Rows     []int          `json:"rows"`
	Events   []DisplayEvent `json:"events"`
	Timeline *Timeline      `json:"timeline,omitempty"`
}

// DisplayEvent is a change event projected for display, with defaults applied.
// Dated is false when the event has no usable date and is left off the timeline.
type DisplayEvent struct {
	Row        int       `json:"row"`
	ChangeType string    `json:"change_type"`
	Date       time.Time `json:"date"`
	Dated      bool      `json:"dated"`
}

// Timeline is the input to the change timeline chart.
type Timeline struct {
	Title      string             `json:"title"`
	Intervals  []TimelineInterval `json:"intervals"`
	Categories []CategoryCount    `json:"categories"`
}

// TimelineInterval is one bar on the timeline; Start equals End for point events.
type TimelineInterval struct {
	Category string    `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CategoryCount is a timeline category with its event count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
