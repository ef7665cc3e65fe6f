package core

import (
	"context"

	"github.com/JonMunkholm/csvclean/internal/logging"
)

// ruleFunc applies one cleaning rule in place and reports how much it changed.
type ruleFunc func(t *Table) (int, error)

// rules is the fixed cleaning order. Imputation must see deduplicated rows,
// and coercion must run after imputation has removed every Missing cell.
var rules = []struct {
	name  Rule
	apply ruleFunc
}{
	{RuleDeduplicate, deduplicate},
	{RuleImpute, impute},
	{RuleNormalizeText, normalizeText},
	{RuleCoerceNumeric, coerceNumeric},
}

// Pipeline applies the cleaning rules to a Table.
type Pipeline struct{}

// NewPipeline creates the cleaning pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Rules returns the rule names in the order Apply runs them.
func (p *Pipeline) Rules() []Rule {
	names := make([]Rule, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Apply runs every rule in order on a copy of t and returns the cleaned copy.
// t itself is never modified. On the first failing rule Apply returns a nil
// table, the results of the rules that completed, and an *Error naming the
// rule and column.
func (p *Pipeline) Apply(ctx context.Context, t *Table) (*Table, []RuleResult, error) {
	logger := logging.FromContext(ctx)

	work := t.Clone()
	results := make([]RuleResult, 0, len(rules))

	for _, r := range rules {
		changed, err := r.apply(work)
		if err != nil {
			logger.Debug("rule failed", "rule", r.name, "error", err)
			return nil, results, err
		}
		results = append(results, RuleResult{Rule: r.name, Changed: changed})
		logger.Debug("rule applied",
			"rule", r.name,
			"changed", changed,
			"rows", work.NumRows(),
		)
	}

	return work, results, nil
}
