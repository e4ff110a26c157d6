package entity

// Dataset is one raw input table held fully in memory: a fixed header and
// one row of strings per booking record. Rows are never mutated after load.
type Dataset struct {
	Path    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewDataset builds a Dataset and its column index.
func NewDataset(path string, columns []string, rows [][]string) *Dataset {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Dataset{Path: path, Columns: columns, Rows: rows, index: idx}
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the header contains the column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// WithColumn returns a new Dataset that shares no row storage with the
// receiver and carries one extra column whose value per row is produced by
// derive. Used for derived dimensions (lead-time buckets, month names).
func (d *Dataset) WithColumn(name string, derive func(row []string) string) *Dataset {
	columns := make([]string, 0, len(d.Columns)+1)
	columns = append(columns, d.Columns...)
	columns = append(columns, name)

	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		next := make([]string, 0, len(row)+1)
		next = append(next, row...)
		next = append(next, derive(row))
		rows[i] = next
	}
	return NewDataset(d.Path, columns, rows)
}

// Select returns a new Dataset keeping only the rows for which keep returns
// true. Column storage is shared; row slices are not copied.
func (d *Dataset) Select(keep func(row []string) bool) *Dataset {
	rows := make([][]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return NewDataset(d.Path, d.Columns, rows)
}
