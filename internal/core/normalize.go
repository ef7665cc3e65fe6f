package core

import "strings"

// normalizeText trims leading and trailing whitespace from every text cell
// of Categorical columns. Returns the number of cells changed.
func normalizeText(t *Table) (int, error) {
	trimmed := 0
	for i := range t.cols {
		col := &t.cols[i]
		if col.Kind != KindCategorical {
			continue
		}
		for r, c := range col.Cells {
			if c.Kind != CellText {
				continue
			}
			if s := strings.TrimSpace(c.Text); s != c.Text {
				col.Cells[r] = Text(s)
				trimmed++
			}
		}
	}
	return trimmed, nil
}
