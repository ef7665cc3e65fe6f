// Package core provides the table model and cleaning logic for csvclean.
// This package has no I/O dependencies and can be driven by any source or sink.
package core

import (
	"context"
	"time"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// String returns the lowercase name of the cell kind.
func (k CellKind) String() string {
	switch k {
	case CellMissing:
		return "missing"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single value of a Column.
type Cell struct {
	Kind CellKind
	Num  float64 // Value when Kind is CellNumber
	Text string  // Value when Kind is CellText
	Raw  string  // Source representation of a Number; cleared by numeric coercion
}

// Missing returns the absent-value marker.
func Missing() Cell { return Cell{Kind: CellMissing} }

// Number returns a numeric cell with no raw representation.
func Number(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

// IsMissing reports whether the cell is the Missing marker.
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// Equal reports whether two cells hold the same value.
// Missing equals Missing; numbers compare by value, so "42" equals "42.0".
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Text == o.Text
	default:
		return true
	}
}

// String renders the cell the way sinks write it. Missing renders as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Raw != "" {
			return c.Raw
		}
		return FormatNumber(c.Num)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// ColumnKind classifies a column for rule selection.
type ColumnKind int

const (
	KindNumeric ColumnKind = iota + 1
	KindCategorical
)

// String returns the lowercase name of the column kind.
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is one named field across all rows of a Table.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// Stage names one step of a run.
type Stage string

const (
	StageLoad  Stage = "load"
	StageClean Stage = "clean"
	StageSave  Stage = "save"
)

// Rule names one cleaning rule of the pipeline.
type Rule string

const (
	RuleDeduplicate   Rule = "deduplicate"
	RuleImpute        Rule = "impute"
	RuleNormalizeText Rule = "normalize_text"
	RuleCoerceNumeric Rule = "coerce_numeric"
)

// RuleResult records what one rule changed.
// Changed counts removed rows for deduplication and rewritten cells otherwise.
type RuleResult struct {
	Rule    Rule
	Changed int
}

// StageResult is the outcome of one stage of a run.
type StageResult struct {
	Stage    Stage
	OK       bool
	Message  string
	Rows     int
	Rules    []RuleResult // Populated for the clean stage only
	Duration time.Duration
	Err      error // Non-nil if OK is false
}

// Report lists the result of every stage a run attempted, in order.
type Report struct {
	Stages []StageResult
}

// Failed returns the failing stage, if any.
func (r Report) Failed() (StageResult, bool) {
	for _, s := range r.Stages {
		if !s.OK {
			return s, true
		}
	}
	return StageResult{}, false
}

// Source produces a Table from a location.
type Source interface {
	Load(ctx context.Context, path string) (*Table, error)
}

// Sink consumes a Table, writing it to a destination.
type Sink interface {
	Save(ctx context.Context, t *Table, dest string) error
}
