package entity

// Table is one reshaped output table, ready to be serialized: an ordered
// header and string cells in their final formatting. Constructed once by the
// reshaper and never mutated afterwards.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
