package domain

import (
	"github.com/google/uuid"
)

// FailureRecord is one recorded validation failure, flattened for export.
// Line is the 1-based data line number.
type FailureRecord struct {
	RunID   uuid.UUID    `json:"run_id"`
	Vlad    string       `json:"vlad"`
	Source  string       `json:"source"`
	Scope   FailureScope `json:"scope"`
	Column  string       `json:"column,omitempty"`
	Line    int          `json:"line"`
	Message string       `json:"message"`
}
