package diagnostic

import (
	"errors"
	"strings"
)

// Codes reported by the mapper and the profile validator.
const (
	CodeUnmappedMember = "unmapped_member"
	CodeUnusedSource   = "unused_source"
	CodeIgnoredMember  = "ignored_member"
	CodeInvalidPath    = "invalid_path"
	CodeDuplicate      = "duplicate_target"
	CodeConflict       = "bound_and_ignored"
	CodeUnknownType    = "unknown_type"
	CodeUnsupported    = "unsupported_version"
	CodeInvalidField   = "invalid_field"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}

	return severityNames[s]
}

// MarshalYAML renders the severity by name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Diagnostic is one finding about a mapping or a profile entry.
type Diagnostic struct {
	Severity    Severity `yaml:"severity"`
	Code        string   `yaml:"code"`
	Message     string   `yaml:"message"`
	Pair        string   `yaml:"pair,omitempty"`   // "Source -> Target [name]"
	Member      string   `yaml:"member,omitempty"` // target member or source path
	Suggestions []string `yaml:"suggestions,omitempty"`
}

// String renders "[pair] member: [code] message (did you mean a, b?)",
// leaving out the parts that are empty.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Pair != "" {
		b.WriteString("[" + d.Pair + "]")
	}

	if d.Member != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(d.Member)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Error is the error form of an error diagnostic, recoverable with
// errors.As from the result of Diagnostics.Err.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string { return e.Diagnostic.String() }

// Diagnostics collects findings split by severity.
type Diagnostics struct {
	Errors   []Diagnostic `yaml:"errors,omitempty"`
	Warnings []Diagnostic `yaml:"warnings,omitempty"`
	Infos    []Diagnostic `yaml:"infos,omitempty"`
}

func (d *Diagnostics) bucket(s Severity) *[]Diagnostic {
	switch s {
	case SeverityError:
		return &d.Errors
	case SeverityWarning:
		return &d.Warnings
	default:
		return &d.Infos
	}
}

func (d *Diagnostics) Add(diag Diagnostic) {
	b := d.bucket(diag.Severity)
	*b = append(*b, diag)
}

func (d *Diagnostics) AddError(code, message, pair, member string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Pair: pair, Member: member})
}

func (d *Diagnostics) AddWarning(code, message, pair, member string, suggestions ...string) {
	d.Add(Diagnostic{
		Severity: SeverityWarning, Code: code, Message: message,
		Pair: pair, Member: member, Suggestions: suggestions,
	})
}

func (d *Diagnostics) AddInfo(code, message, pair, member string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Pair: pair, Member: member})
}

// Merge appends every finding of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	for _, diag := range other.All() {
		d.Add(diag)
	}
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	return append(append(append([]Diagnostic(nil), d.Errors...), d.Warnings...), d.Infos...)
}

// IsValid reports whether no error was recorded.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err joins the error diagnostics, each as an *Error, or returns nil.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, len(d.Errors))
	for i, diag := range d.Errors {
		errs[i] = &Error{Diagnostic: diag}
	}

	return errors.Join(errs...)
}
