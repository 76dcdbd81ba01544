package domain

import "github.com/go-faster/errors"

// Status is the lifecycle state shared by care-console entities.
// Offices use "disabled" instead of "inactive"; everything else is
// active/inactive.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDisabled Status = "disabled"
)

var ErrNotFound = errors.New("entity not found")

// IsActive reports whether a row counts as "active" for relational
// delete preconditions.
func (s Status) IsActive() bool {
	return s == StatusActive
}
