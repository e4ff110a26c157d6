package reshape

// NullPolicy fixes what happens to rows whose grouping-key cells are empty.
// The policy holds for a whole run; the two behaviors are never mixed.
type NullPolicy string

const (
	// PolicyUnknown buckets rows with empty key cells under the literal
	// group value "unknown".
	PolicyUnknown NullPolicy = "unknown"
	// PolicyDrop discards rows with empty key cells.
	PolicyDrop NullPolicy = "drop"
)

// UnknownGroup is the group value assigned under PolicyUnknown.
const UnknownGroup = "unknown"

// TotalGroup is the group value of synthetic rows that collapse one grouping
// column (see Options.TotalOf). Total rows always sort after regular rows.
const TotalGroup = "Total"

// Options control formatting and edge-case policy for all reshape operations.
type Options struct {
	// Percent expresses rates in [0, 100] with 2 decimals instead of the
	// default fraction in [0, 1] with 4 decimals.
	Percent bool
	// NullPolicy for empty grouping-key cells. Empty value means PolicyUnknown.
	NullPolicy NullPolicy
	// TotalOf names one grouping column to additionally collapse into
	// appended "Total" rows (summary and pivot layouts only).
	TotalOf string
}

func (o Options) policy() NullPolicy {
	if o.NullPolicy == "" {
		return PolicyUnknown
	}
	return o.NullPolicy
}

// formatRate renders canceled/total under the configured convention.
func (o Options) formatRate(canceled, total int) string {
	rate := float64(canceled) / float64(total)
	if o.Percent {
		return formatFloat(rate*100, 2)
	}
	return formatFloat(rate, 4)
}
