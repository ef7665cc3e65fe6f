// Package core provides the table model and the cleaning pipeline of csvclean.
//
// This package is the heart of the cleaner, containing all domain logic
// independent of file formats or databases. Sources and sinks live in their
// own packages and meet core through the [Source] and [Sink] interfaces.
//
// # Data Model
//
// A [Table] is an ordered set of uniquely named [Column] values of equal
// length. Each [Cell] is one of Missing, Number or Text. Every column gets a
// [ColumnKind] (Numeric or Categorical) exactly once, when the table is
// built; rules select their behavior from that kind and never re-inspect
// values to guess it.
//
// # Cleaning Rules
//
// [Pipeline.Apply] runs four rules in a fixed order on a copy of the input:
//
//  1. Deduplicate: drop rows equal to an earlier row in every column
//  2. Impute: Missing becomes the column mean (Numeric) or mode (Categorical)
//  3. Normalize text: trim surrounding whitespace in Categorical columns
//  4. Coerce numeric: every Numeric cell becomes a canonical float
//
// Mode ties go to the value seen first in row order. A column with missing
// cells and no values fails with [ErrImputationUndefined]; no fallback value
// is invented.
//
// # Running
//
// [Runner.Run] sequences load, clean and save and returns a [Report] of
// [StageResult] values. It stops at the first failure, so nothing is saved
// unless every earlier stage succeeded.
//
// # Error Handling
//
// Every stage failure is an [*Error] carrying the stage, the rule and column
// where relevant, and one of the kinds [ErrSourceNotFound], [ErrSourceParse],
// [ErrColumnTypeConflict], [ErrImputationUndefined] or [ErrSinkWrite].
// [MapError] turns any error into a coded [UserMessage]:
//
//   - SRC001-SRC003: Input errors (missing file, bad format, size)
//   - CLN001-CLN002: Cleaning errors (type conflict, nothing to impute from)
//   - SNK001-SNK004: Output errors (disk, permissions, database, write)
package core
