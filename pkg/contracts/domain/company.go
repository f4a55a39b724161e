package domain

import (
	"time"
)

// MasterRecord is one company row of the master registry.
// Empty strings are absent values.
type MasterRecord struct {
	Row              int        `json:"row"`
	Identifier       string     `json:"cin"`
	CompanyName      string     `json:"company_name"`
	RegionCode       string     `json:"region_code,omitempty"`
	Status           string     `json:"status,omitempty"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
}

// EnrichedAttribute is a sparse key/value fact about a company.
type EnrichedAttribute struct {
	Row        int    `json:"row"`
	Identifier string `json:"cin"`
	Field      string `json:"field"`
	Value      string `json:"value"`
}

// ChangeEvent is one logged change for a company as loaded from the change log.
// ChangeType and Date are empty/nil when the cell (or the whole column) is absent.
type ChangeEvent struct {
	Row        int        `json:"row"`
	Identifier string     `json:"cin"`
	ChangeType string     `json:"change_type,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}
