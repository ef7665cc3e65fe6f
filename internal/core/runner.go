package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/csvclean/internal/logging"
)

// Runner sequences Source -> Pipeline -> Sink for one run.
//
// The flow is:
//
//  1. Source.Load reads the input into a Table
//  2. Pipeline.Apply cleans a copy of it
//  3. Sink.Save writes the cleaned Table
//
// The first failing stage ends the run; later stages are never attempted,
// so the sink is only reached when load and clean both succeeded.
type Runner struct {
	source   Source
	pipeline *Pipeline
	sink     Sink
}

// NewRunner creates a runner over the given collaborators.
func NewRunner(source Source, pipeline *Pipeline, sink Sink) *Runner {
	return &Runner{
		source:   source,
		pipeline: pipeline,
		sink:     sink,
	}
}

// Run executes one load/clean/save cycle. The returned Report lists every
// stage attempted; the error is the failing stage's *Error, or nil.
func (r *Runner) Run(ctx context.Context, input, output string) (Report, error) {
	logger := logging.WithFields(ctx, "input", input, "output", output)
	var report Report

	// 1. Load
	start := time.Now()
	logger.Info("stage started", "stage", StageLoad)
	raw, err := r.source.Load(ctx, input)
	if err != nil {
		return r.fail(ctx, report, StageLoad, start, err)
	}
	report.Stages = append(report.Stages, StageResult{
		Stage:    StageLoad,
		OK:       true,
		Message:  fmt.Sprintf("loaded %d rows and %d columns from %s", raw.NumRows(), raw.NumCols(), input),
		Rows:     raw.NumRows(),
		Duration: time.Since(start),
	})
	logger.Info("stage completed", "stage", StageLoad, "rows", raw.NumRows(), "columns", raw.NumCols())

	// 2. Clean
	start = time.Now()
	logger.Info("stage started", "stage", StageClean, "rules", r.pipeline.Rules())
	cleaned, rules, err := r.pipeline.Apply(ctx, raw)
	if err != nil {
		report, err = r.fail(ctx, report, StageClean, start, err)
		report.Stages[len(report.Stages)-1].Rules = rules
		return report, err
	}
	report.Stages = append(report.Stages, StageResult{
		Stage:    StageClean,
		OK:       true,
		Message:  summarizeRules(rules),
		Rows:     cleaned.NumRows(),
		Rules:    rules,
		Duration: time.Since(start),
	})
	logger.Info("stage completed", "stage", StageClean, "rows", cleaned.NumRows())

	// 3. Save
	start = time.Now()
	logger.Info("stage started", "stage", StageSave)
	if err := r.sink.Save(ctx, cleaned, output); err != nil {
		return r.fail(ctx, report, StageSave, start, err)
	}
	report.Stages = append(report.Stages, StageResult{
		Stage:    StageSave,
		OK:       true,
		Message:  fmt.Sprintf("wrote %d rows to %s", cleaned.NumRows(), output),
		Rows:     cleaned.NumRows(),
		Duration: time.Since(start),
	})
	logger.Info("stage completed", "stage", StageSave, "rows", cleaned.NumRows())

	return report, nil
}

// fail records a failed stage and returns the stage-tagged error.
func (r *Runner) fail(ctx context.Context, report Report, stage Stage, start time.Time, err error) (Report, error) {
	err = withStage(stage, err)
	report.Stages = append(report.Stages, StageResult{
		Stage:    stage,
		OK:       false,
		Message:  err.Error(),
		Duration: time.Since(start),
		Err:      err,
	})
	logging.FromContext(ctx).Error("stage failed", "stage", stage, "error", err)
	return report, err
}

// withStage makes sure err is an *Error tagged with stage. Collaborators
// outside this package may return plain errors.
func withStage(stage Stage, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Stage == "" {
			e.Stage = stage
		}
		return err
	}

	kind := error(nil)
	switch stage {
	case StageLoad:
		kind = ErrSourceParse
	case StageSave:
		kind = ErrSinkWrite
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}

func summarizeRules(results []RuleResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		switch r.Rule {
		case RuleDeduplicate:
			parts = append(parts, fmt.Sprintf("removed %d duplicate rows", r.Changed))
		case RuleImpute:
			parts = append(parts, fmt.Sprintf("imputed %d cells", r.Changed))
		case RuleNormalizeText:
			parts = append(parts, fmt.Sprintf("trimmed %d cells", r.Changed))
		case RuleCoerceNumeric:
			parts = append(parts, fmt.Sprintf("coerced %d cells", r.Changed))
		}
	}
	return strings.Join(parts, ", ")
}
