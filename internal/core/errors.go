package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a stage matches exactly one of these
// with errors.Is.
var (
	ErrSourceNotFound      = errors.New("source not found")
	ErrSourceParse         = errors.New("source parse error")
	ErrColumnTypeConflict  = errors.New("column type conflict")
	ErrImputationUndefined = errors.New("imputation undefined")
	ErrSinkWrite           = errors.New("sink write error")
)

// Error is a stage-local failure with enough context to report directly.
type Error struct {
	Kind   error  // One of the Err* kinds above
	Stage  Stage  // Stage that failed
	Rule   Rule   // Cleaning rule, empty outside the clean stage
	Column string // Column name, empty when not column specific
	Path   string // Source or sink location, empty inside the pipeline
	Err    error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Stage))
	if e.Rule != "" {
		b.WriteString("/")
		b.WriteString(string(e.Rule))
	}
	if e.Path != "" {
		fmt.Fprintf(&b, ": %s", e.Path)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Kind != nil {
		fmt.Fprintf(&b, ": %s", e.Kind)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// SourceError wraps a load failure for path.
func SourceError(kind error, path string, err error) *Error {
	return &Error{Kind: kind, Stage: StageLoad, Path: path, Err: err}
}

// SinkError wraps a save failure for dest.
func SinkError(dest string, err error) *Error {
	return &Error{Kind: ErrSinkWrite, Stage: StageSave, Path: dest, Err: err}
}

// ruleError wraps a failure of one cleaning rule on one column.
func ruleError(kind error, rule Rule, column string, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Stage:  StageClean,
		Rule:   rule,
		Column: column,
		Err:    fmt.Errorf(format, args...),
	}
}

// StageOf returns the stage recorded in err, or "" when err carries none.
func StageOf(err error) Stage {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}
