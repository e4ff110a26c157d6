package entity

// TableResult describes one generated table for the run report.
type TableResult struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	GroupBy []string `json:"group_by"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Files   []string `json:"files"`
}

// RunReport summarizes a whole preparation run: the dataset that was read
// and every table that was written from it.
type RunReport struct {
	Input        string        `json:"input"`
	InputRows    int           `json:"input_rows"`
	CanceledRows int           `json:"canceled_rows"`
	GlobalRate   float64       `json:"global_cancel_rate"`
	Tables       []TableResult `json:"tables"`
}
