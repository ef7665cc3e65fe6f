package core

import "fmt"

// Table is an ordered set of uniquely named columns of equal length.
//
// A Table is owned by one stage at a time. Accessors return copies, so the
// only way to change a Table is through the pipeline rules.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewTable builds a Table from a header and row-major cells, inferring each
// column's kind from its non-missing values.
func NewTable(names []string, rows [][]Cell) (*Table, error) {
	return NewTableWithKinds(names, rows, nil)
}

// NewTableWithKinds builds a Table like NewTable but uses the declared kind
// for every column named in kinds. A declared Numeric column keeps text it
// cannot parse; the pipeline reports it as a type conflict.
func NewTableWithKinds(names []string, rows [][]Cell, kinds map[string]ColumnKind) (*Table, error) {
	t := &Table{
		cols:  make([]Column, len(names)),
		index: make(map[string]int, len(names)),
		rows:  len(rows),
	}

	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		t.index[name] = i
		t.cols[i] = Column{Name: name, Cells: make([]Cell, len(rows))}
	}

	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", r+1, len(row), len(names))
		}
		for c, cell := range row {
			t.cols[c].Cells[r] = cell
		}
	}

	for name, kind := range kinds {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("kind declared for unknown column %q", name)
		}
		if kind != KindNumeric && kind != KindCategorical {
			return nil, fmt.Errorf("invalid kind for column %q", name)
		}
	}

	for i := range t.cols {
		col := &t.cols[i]
		kind, declared := kinds[col.Name]
		if !declared {
			kind = InferKind(col.Cells)
		}
		col.Kind = kind
		settleCells(col)
	}

	return t, nil
}

// InferKind classifies a column from its non-missing cells. A column whose
// every value parses as a number is Numeric; so is a column with no values.
func InferKind(cells []Cell) ColumnKind {
	for _, c := range cells {
		if c.Kind != CellText {
			continue
		}
		if _, ok := ParseNumber(c.Text); !ok {
			return KindCategorical
		}
	}
	return KindNumeric
}

// settleCells converts cells to the variant matching the column kind.
func settleCells(col *Column) {
	for i, c := range col.Cells {
		switch {
		case col.Kind == KindNumeric && c.Kind == CellText:
			if v, ok := ParseNumber(c.Text); ok {
				col.Cells[i] = Cell{Kind: CellNumber, Num: v, Raw: c.Text}
			}
		case col.Kind == KindCategorical && c.Kind == CellNumber:
			col.Cells[i] = Text(c.String())
		}
	}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Header returns the column names in order.
func (t *Table) Header() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Kinds returns the column kinds in column order.
func (t *Table) Kinds() []ColumnKind {
	kinds := make([]ColumnKind, len(t.cols))
	for i, c := range t.cols {
		kinds[i] = c.Kind
	}
	return kinds
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return cloneColumn(t.cols[i]), true
}

// Row returns a copy of row r in column order.
func (t *Table) Row(r int) []Cell {
	row := make([]Cell, len(t.cols))
	for c := range t.cols {
		row[c] = t.cols[c].Cells[r]
	}
	return row
}

// Records renders every row as strings, the way sinks write them.
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	for r := 0; r < t.rows; r++ {
		rec := make([]string, len(t.cols))
		for c := range t.cols {
			rec[c] = t.cols[c].Cells[r].String()
		}
		out[r] = rec
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		cols:  make([]Column, len(t.cols)),
		index: make(map[string]int, len(t.index)),
		rows:  t.rows,
	}
	for i, c := range t.cols {
		out.cols[i] = cloneColumn(c)
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// Equal reports whether both tables have the same columns, kinds and cell values.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.cols) != len(o.cols) {
		return false
	}
	for i := range t.cols {
		a, b := t.cols[i], o.cols[i]
		if a.Name != b.Name || a.Kind != b.Kind {
			return false
		}
		for r := range a.Cells {
			if !a.Cells[r].Equal(b.Cells[r]) {
				return false
			}
		}
	}
	return true
}

// keepRows retains only the listed rows, in the given order.
func (t *Table) keepRows(rows []int) {
	for i := range t.cols {
		cells := make([]Cell, len(rows))
		for j, r := range rows {
			cells[j] = t.cols[i].Cells[r]
		}
		t.cols[i].Cells = cells
	}
	t.rows = len(rows)
}

func cloneColumn(c Column) Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return Column{Name: c.Name, Kind: c.Kind, Cells: cells}
}
