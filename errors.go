// Completion: 100% - Error handling complete, clear and helpful messages
package main

import (
	"fmt"
	"strings"
)

// ErrorLevel indicates the severity of a diagnostic.
type ErrorLevel int

const (
	LevelWarning ErrorLevel = iota
	LevelError
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// ErrorCategory classifies where in the pipeline a diagnostic originated.
type ErrorCategory int

const (
	CategoryIR ErrorCategory = iota
	CategoryPass
	CategoryELF
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryIR:
		return "ir"
	case CategoryPass:
		return "pass"
	case CategoryELF:
		return "elf"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// HardenLocation pins a diagnostic to a place in the IR, rather than a
// source-file position - the teacher's SourceLocation adapted to a binary
// rather than a source tree: there are no lines and columns here, only
// functions, addresses and the pass that was running.
type HardenLocation struct {
	Function string
	Address  uint64
	Pass     PassName
}

func (loc HardenLocation) String() string {
	switch {
	case loc.Function != "" && loc.Pass != "":
		return fmt.Sprintf("%s@0x%x [%s]", loc.Function, loc.Address, loc.Pass)
	case loc.Function != "":
		return fmt.Sprintf("%s@0x%x", loc.Function, loc.Address)
	case loc.Pass != "":
		return string(loc.Pass)
	default:
		return "<unknown>"
	}
}

// HardenError is a single diagnostic raised anywhere in the pipeline, such
// as an input ELF that LoadELF cannot read (main.go).
type HardenError struct {
	Level    ErrorLevel
	Category ErrorCategory
	Message  string
	Location HardenLocation
	HelpText string
}

// Error implements the error interface.
func (e HardenError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Location, e.Level, e.Message)
}

// Format returns a multi-line rendering including help text, used by the
// CLI's -v output.
func (e HardenError) Format() string {
	var sb strings.Builder
	sb.WriteString(e.Level.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	sb.WriteString("\n  --> ")
	sb.WriteString(e.Location.String())
	sb.WriteString("\n")
	if e.HelpText != "" {
		sb.WriteString("  note: ")
		sb.WriteString(e.HelpText)
		sb.WriteString("\n")
	}
	return sb.String()
}

// ErrorCollector accumulates diagnostics across a full hardening run so
// the CLI can report every problem found instead of stopping at the
// first, mirroring the teacher's ErrorCollector.
type ErrorCollector struct {
	errors    []HardenError
	warnings  []HardenError
	maxErrors int
}

// NewErrorCollector creates a collector whose ShouldStop reports true once
// maxErrors errors have been recorded (0 or negative means "unbounded").
// AddError keeps recording errors past that point.
func NewErrorCollector(maxErrors int) *ErrorCollector {
	return &ErrorCollector{maxErrors: maxErrors}
}

// AddError records an error- or fatal-level diagnostic.
func (ec *ErrorCollector) AddError(err HardenError) {
	ec.errors = append(ec.errors, err)
}

// AddWarning records a warning, forcing its level regardless of what the
// caller set.
func (ec *ErrorCollector) AddWarning(warn HardenError) {
	warn.Level = LevelWarning
	ec.warnings = append(ec.warnings, warn)
}

// HasErrors reports whether any error- or fatal-level diagnostic was
// recorded.
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// HasFatalError reports whether any fatal diagnostic was recorded.
func (ec *ErrorCollector) HasFatalError() bool {
	for _, err := range ec.errors {
		if err.Level == LevelFatal {
			return true
		}
	}
	return false
}

// ShouldStop reports whether the collector has reached its error budget.
func (ec *ErrorCollector) ShouldStop() bool {
	return ec.maxErrors > 0 && len(ec.errors) >= ec.maxErrors
}

// Report formats every collected error and warning for display.
func (ec *ErrorCollector) Report() string {
	var sb strings.Builder
	for _, err := range ec.errors {
		sb.WriteString(err.Format())
	}
	for _, warn := range ec.warnings {
		sb.WriteString(warn.Format())
	}
	if len(ec.errors) > 0 || len(ec.warnings) > 0 {
		sb.WriteString(fmt.Sprintf("%d error(s), %d warning(s)\n", len(ec.errors), len(ec.warnings)))
	}
	return sb.String()
}
