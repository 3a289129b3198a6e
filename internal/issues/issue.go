// Package issues provides a unified issue type for problems and
// recommendations surfaced by IR construction and reverse parsing.
package issues

import (
	"fmt"

	"github.com/castrhq/castr/internal/severity"
)

// Issue represents a single problem or recommendation found during IR
// construction, emission, or reverse parsing.
type Issue struct {
	// Path is the JSON path or declaration name the issue relates to
	// (e.g., "paths./pets.get.responses" or "User")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Code classifies the issue for programmatic handling (optional)
	Code string
	// SpecRef is the URL to the relevant section of the OAS specification (optional)
	SpecRef string
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	var result string
	if i.Line > 0 {
		result = fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, i.Path, i.Line, i.Column, i.Message)
	} else {
		result = fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	}

	if i.Code != "" {
		result += fmt.Sprintf(" [%s]", i.Code)
	}
	if i.SpecRef != "" {
		result += fmt.Sprintf("\n    Spec: %s", i.SpecRef)
	}
	return result
}

// Location returns the source location in IDE-friendly format.
// Returns "line:column" if line is set, or the path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// Count tallies issues by severity.
type Count struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Tally counts issues by severity level.
func Tally(list []Issue) Count {
	var c Count
	for _, i := range list {
		switch i.Severity {
		case severity.SeverityInfo:
			c.Info++
		case severity.SeverityWarning:
			c.Warning++
		case severity.SeverityError:
			c.Error++
		case severity.SeverityCritical:
			c.Critical++
		}
	}
	return c
}
