package drc

import "github.com/sparkbench/boardcore/pkg/geom"

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one design-rule finding. Violations are recomputed from a
// board and never persisted.
type Violation struct {
	Severity      Severity    `json:"severity"`
	Message       string      `json:"message"`
	FootprintRefs []string    `json:"footprintRefs,omitempty"`
	Location      *geom.Point `json:"location,omitempty"`
}
