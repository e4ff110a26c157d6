// Package reshape holds the pure tabular transformations that turn raw
// booking records into the tables the chart tool ingests. Every operation is
// a one-shot fold over the dataset with a deterministic output order.
package reshape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// keySep joins grouping-key values into map keys. It cannot occur in CSV
// cell values that matter here.
const keySep = "\x1f"

type counter struct {
	total    int
	canceled int
}

// Summarize folds the dataset into one row per distinct grouping key with
// columns `<group cols...>, total, canceled, rate`. Rows are ordered by the
// grouping-key tuple (see compareKeys); Total rows, when requested, come last.
func Summarize(ds *entity.Dataset, groupBy []string, flagCol string, opts Options) (*entity.Table, error) {
	keys, counts, err := accumulate(ds, groupBy, flagCol, opts)
	if err != nil {
		return nil, err
	}

	columns := append(append([]string{}, groupBy...), "total", "canceled", "rate")
	table := &entity.Table{Columns: columns}

	emit := func(keys []string, counts map[string]*counter) {
		for _, key := range keys {
			c := counts[key]
			row := append(splitKey(key),
				strconv.Itoa(c.total),
				strconv.Itoa(c.canceled),
				opts.formatRate(c.canceled, c.total),
			)
			table.Rows = append(table.Rows, row)
		}
	}
	emit(keys, counts)

	if opts.TotalOf != "" {
		totalKeys, totalCounts, err := accumulateTotals(ds, groupBy, flagCol, opts)
		if err != nil {
			return nil, err
		}
		emit(totalKeys, totalCounts)
	}

	return table, nil
}

// PivotStatus folds the dataset into one row per grouping key with the
// cancellation status spread over columns:
// `<group cols...>, Canceled, Not Canceled, Canceled %, Not Canceled %`.
// Percentages are always in [0, 100] with 2 decimals, following the layout
// the chart tool expects for stacked charts.
func PivotStatus(ds *entity.Dataset, groupBy []string, flagCol string, opts Options) (*entity.Table, error) {
	keys, counts, err := accumulate(ds, groupBy, flagCol, opts)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(groupBy)+4)
	for _, col := range groupBy {
		columns = append(columns, DisplayName(col))
	}
	columns = append(columns, "Canceled", "Not Canceled", "Canceled %", "Not Canceled %")
	table := &entity.Table{Columns: columns}

	emit := func(keys []string, counts map[string]*counter) {
		for _, key := range keys {
			c := counts[key]
			notCanceled := c.total - c.canceled
			row := append(splitKey(key),
				strconv.Itoa(c.canceled),
				strconv.Itoa(notCanceled),
				formatFloat(float64(c.canceled)/float64(c.total)*100, 2),
				formatFloat(float64(notCanceled)/float64(c.total)*100, 2),
			)
			table.Rows = append(table.Rows, row)
		}
	}
	emit(keys, counts)

	if opts.TotalOf != "" {
		totalKeys, totalCounts, err := accumulateTotals(ds, groupBy, flagCol, opts)
		if err != nil {
			return nil, err
		}
		emit(totalKeys, totalCounts)
	}

	return table, nil
}

// accumulate performs the single pass over the dataset: grouping-key tuple →
// running (total, canceled) pair. Returned keys are already ordered.
func accumulate(ds *entity.Dataset, groupBy []string, flagCol string, opts Options) ([]string, map[string]*counter, error) {
	keyIdx, flagIdx, err := resolveColumns(ds, groupBy, flagCol)
	if err != nil {
		return nil, nil, err
	}

	counts := map[string]*counter{}
	for i, row := range ds.Rows {
		key, ok := rowKey(row, keyIdx, opts.policy())
		if !ok {
			continue
		}
		canceled, err := ParseFlag(row[flagIdx], i+1, flagCol)
		if err != nil {
			return nil, nil, err
		}
		c := counts[key]
		if c == nil {
			c = &counter{}
			counts[key] = c
		}
		c.total++
		if canceled {
			c.canceled++
		}
	}

	return sortedKeys(counts), counts, nil
}

// accumulateTotals re-runs the fold with the TotalOf column collapsed to the
// literal TotalGroup, producing the appended Total rows.
func accumulateTotals(ds *entity.Dataset, groupBy []string, flagCol string, opts Options) ([]string, map[string]*counter, error) {
	totalIdx := -1
	for i, col := range groupBy {
		if col == opts.TotalOf {
			totalIdx = i
		}
	}
	if totalIdx == -1 {
		return nil, nil, fmt.Errorf("total-of column %q is not a grouping column", opts.TotalOf)
	}

	keyIdx, flagIdx, err := resolveColumns(ds, groupBy, flagCol)
	if err != nil {
		return nil, nil, err
	}

	counts := map[string]*counter{}
	for i, row := range ds.Rows {
		parts, ok := keyParts(row, keyIdx, opts.policy())
		if !ok {
			continue
		}
		parts[totalIdx] = TotalGroup
		key := strings.Join(parts, keySep)

		canceled, err := ParseFlag(row[flagIdx], i+1, flagCol)
		if err != nil {
			return nil, nil, err
		}
		c := counts[key]
		if c == nil {
			c = &counter{}
			counts[key] = c
		}
		c.total++
		if canceled {
			c.canceled++
		}
	}

	return sortedKeys(counts), counts, nil
}

// resolveColumns maps the grouping and flag columns to row indices, failing
// with a SchemaError on the first missing column.
func resolveColumns(ds *entity.Dataset, groupBy []string, flagCol string) ([]int, int, error) {
	keyIdx := make([]int, len(groupBy))
	for i, col := range groupBy {
		idx := ds.ColumnIndex(col)
		if idx == -1 {
			return nil, 0, &types.SchemaError{Column: col}
		}
		keyIdx[i] = idx
	}
	flagIdx := ds.ColumnIndex(flagCol)
	if flagIdx == -1 {
		return nil, 0, &types.SchemaError{Column: flagCol}
	}
	return keyIdx, flagIdx, nil
}

// keyParts extracts the grouping-key values of a row under the null policy.
// The second return is false when the row must be dropped.
func keyParts(row []string, keyIdx []int, policy NullPolicy) ([]string, bool) {
	parts := make([]string, len(keyIdx))
	for i, idx := range keyIdx {
		v := strings.TrimSpace(row[idx])
		if v == "" {
			if policy == PolicyDrop {
				return nil, false
			}
			v = UnknownGroup
		}
		parts[i] = v
	}
	return parts, true
}

func rowKey(row []string, keyIdx []int, policy NullPolicy) (string, bool) {
	parts, ok := keyParts(row, keyIdx, policy)
	if !ok {
		return "", false
	}
	return strings.Join(parts, keySep), true
}

func splitKey(key string) []string {
	return strings.Split(key, keySep)
}

// formatFloat renders a value with a fixed number of decimals so that output
// is byte-identical across runs.
func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// displayNames maps raw dataset column names to the presentation names used
// in pivot and timeline headers, matching what the published charts show.
var displayNames = map[string]string{
	"hotel":                        "Hotel",
	"country":                      "Country",
	"origin":                       "Origin",
	"tipo":                         "Trip Type",
	"month":                        "Month",
	"lead_time_group":              "Lead Time",
	"first_time_visitor":           "First Time Visitor",
	"previous_cancellations_group": "Previous Cancellations",
}

// DisplayName returns the presentation name of a column, or the column
// itself when no mapping exists.
func DisplayName(col string) string {
	if name, ok := displayNames[col]; ok {
		return name
	}
	return col
}
