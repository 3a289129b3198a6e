// Package severity provides severity level constants and utilities for issues
// reported by the ir, writer, and sourceparser packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue reported during IR
// construction, emission, or reverse parsing.
type Severity int

const (
	// SeverityError indicates a structural defect that makes the input invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates lossy handling or a recommendation that does
	// not prevent processing but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates features that cannot be processed without
	// data loss.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
