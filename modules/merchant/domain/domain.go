package domain

import "github.com/go-faster/errors"

// Status is the lifecycle state shared by merchant-console entities.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var ErrNotFound = errors.New("entity not found")

func (s Status) IsActive() bool {
	return s == StatusActive
}
