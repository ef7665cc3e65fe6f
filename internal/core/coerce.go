package core

// coerceNumeric rewrites every cell of Numeric columns as a canonical float,
// dropping the source representation ("42" and "42.0" both become 42.0).
// Returns the number of cells rewritten.
func coerceNumeric(t *Table) (int, error) {
	coerced := 0
	for i := range t.cols {
		col := &t.cols[i]
		if col.Kind != KindNumeric {
			continue
		}
		for r, c := range col.Cells {
			switch c.Kind {
			case CellNumber:
				if c.Raw == "" {
					continue
				}
				col.Cells[r] = Number(c.Num)
			case CellText:
				v, ok := ParseNumber(c.Text)
				if !ok {
					return coerced, ruleError(ErrColumnTypeConflict, RuleCoerceNumeric, col.Name,
						"cannot cast %q to a number", c.Text)
				}
				col.Cells[r] = Number(v)
			default:
				return coerced, ruleError(ErrColumnTypeConflict, RuleCoerceNumeric, col.Name,
					"missing value at row %d survived imputation", r+1)
			}
			coerced++
		}
	}
	return coerced, nil
}
