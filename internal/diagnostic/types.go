package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"caster-projection/internal/common"
)

// ErrInvalid is wrapped by Diagnostics.Error.
var ErrInvalid = errors.New("invalid mapping")

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// FieldPath identifies which field this relates to (if any).
	FieldPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typePair, fieldPath string) {
	d.add(&d.Errors, DiagnosticError, code, message, typePair, fieldPath, nil)
}

// AddErrorWithSuggestions adds an error listing alternatives.
func (d *Diagnostics) AddErrorWithSuggestions(code, message, typePair, fieldPath string, suggestions []string) {
	d.add(&d.Errors, DiagnosticError, code, message, typePair, fieldPath, suggestions)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string) {
	d.add(&d.Warnings, DiagnosticWarning, code, message, typePair, fieldPath, nil)
}

// AddWarningWithSuggestions adds a warning listing alternatives, e.g. the
// runner-up candidates of an ambiguous match.
func (d *Diagnostics) AddWarningWithSuggestions(code, message, typePair, fieldPath string, suggestions []string) {
	d.add(&d.Warnings, DiagnosticWarning, code, message, typePair, fieldPath, suggestions)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.add(&d.Infos, DiagnosticInfo, code, message, typePair, fieldPath, nil)
}

func (d *Diagnostics) add(
	dst *[]Diagnostic,
	severity DiagnosticSeverity,
	code, message, typePair, fieldPath string,
	suggestions []string,
) {
	*dst = append(*dst, Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		TypePair:    typePair,
		FieldPath:   fieldPath,
		Suggestions: suggestions,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
// The result wraps ErrInvalid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, "; "))
}

// Lines renders every diagnostic, errors first, one per line with its
// severity prefix.
func (d *Diagnostics) Lines() []string {
	lines := make([]string, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			lines = append(lines, diag.Severity.String()+": "+diag.String())
		}
	}

	return lines
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
