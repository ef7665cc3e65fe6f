package core

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// impute fills Missing cells column by column: the mean for Numeric columns,
// the mode for Categorical ones. Returns the number of cells filled.
func impute(t *Table) (int, error) {
	filled := 0
	for i := range t.cols {
		col := &t.cols[i]

		var n int
		var err error
		switch col.Kind {
		case KindNumeric:
			n, err = imputeNumeric(col)
		default:
			n, err = imputeCategorical(col)
		}
		if err != nil {
			return filled, err
		}
		filled += n
	}
	return filled, nil
}

func imputeNumeric(col *Column) (int, error) {
	missing := 0
	values := make([]float64, 0, len(col.Cells))
	for _, c := range col.Cells {
		switch c.Kind {
		case CellMissing:
			missing++
		case CellNumber:
			values = append(values, c.Num)
		case CellText:
			return 0, ruleError(ErrColumnTypeConflict, RuleImpute, col.Name,
				"numeric column holds non-numeric value %q", c.Text)
		}
	}

	if missing == 0 {
		return 0, nil
	}
	if len(values) == 0 {
		return 0, ruleError(ErrImputationUndefined, RuleImpute, col.Name,
			"no non-missing values to average")
	}

	mean := finiteMean(values)
	if math.IsInf(mean, 0) || math.IsNaN(mean) {
		return 0, ruleError(ErrImputationUndefined, RuleImpute, col.Name,
			"mean of %d values is not finite", len(values))
	}

	fillMissing(col, Number(mean))
	return missing, nil
}

// finiteMean is stat.Mean, except that a sum overflowing float64 is retried
// on values scaled down by a power of two, so finite inputs keep a finite mean.
func finiteMean(values []float64) float64 {
	m := stat.Mean(values, nil)
	if !math.IsInf(m, 0) {
		return m
	}

	var maxAbs float64
	for _, v := range values {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	_, exp := math.Frexp(maxAbs)

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = math.Ldexp(v, -exp)
	}
	return math.Ldexp(stat.Mean(scaled, nil), exp)
}

// imputeCategorical fills with the most frequent value. Ties go to the
// value that appears first in row order.
func imputeCategorical(col *Column) (int, error) {
	counts := make(map[string]int)
	var order []string
	missing := 0
	for _, c := range col.Cells {
		if c.IsMissing() {
			missing++
			continue
		}
		v := c.String()
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	if missing == 0 {
		return 0, nil
	}
	if len(order) == 0 {
		return 0, ruleError(ErrImputationUndefined, RuleImpute, col.Name,
			"no non-missing values to take the mode of")
	}

	mode := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}

	fillMissing(col, Text(mode))
	return missing, nil
}

func fillMissing(col *Column, with Cell) {
	for i, c := range col.Cells {
		if c.IsMissing() {
			col.Cells[i] = with
		}
	}
}
