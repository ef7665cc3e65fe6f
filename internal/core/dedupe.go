package core

import (
	"strconv"
	"strings"
)

// deduplicate removes every row equal in all columns to an earlier row,
// keeping first occurrences in their original order. Returns rows removed.
func deduplicate(t *Table) (int, error) {
	seen := make(map[string]struct{}, t.rows)
	keep := make([]int, 0, t.rows)

	var b strings.Builder
	for r := 0; r < t.rows; r++ {
		b.Reset()
		for c := range t.cols {
			writeCellKey(&b, t.cols[c].Cells[r])
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, r)
	}

	removed := t.rows - len(keep)
	if removed > 0 {
		t.keepRows(keep)
	}
	return removed, nil
}

// writeCellKey appends an unambiguous encoding of c. Two cells encode the
// same way exactly when Cell.Equal reports them equal.
func writeCellKey(b *strings.Builder, c Cell) {
	switch c.Kind {
	case CellNumber:
		v := c.Num
		if v == 0 {
			v = 0 // -0 and +0 share a key
		}
		b.WriteByte('n')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case CellText:
		b.WriteByte('t')
		b.WriteString(strconv.Itoa(len(c.Text)))
		b.WriteByte(':')
		b.WriteString(c.Text)
	default:
		b.WriteByte('m')
	}
	b.WriteByte('|')
}
