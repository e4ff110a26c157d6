package reshape

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// SummarizeNumeric folds a numeric column into per-group summary statistics:
// `<group cols...>, mean, median, std, min, max, count`. Rows whose cell is
// empty are dropped, following the source dataset's treatment of missing
// ADR values; a non-empty cell that is not numeric aborts the run.
// std is the sample standard deviation; it is 0 for single-row groups.
func SummarizeNumeric(ds *entity.Dataset, groupBy []string, valueCol string, opts Options) (*entity.Table, error) {
	keyIdx := make([]int, len(groupBy))
	for i, col := range groupBy {
		idx := ds.ColumnIndex(col)
		if idx == -1 {
			return nil, &types.SchemaError{Column: col}
		}
		keyIdx[i] = idx
	}
	valueIdx := ds.ColumnIndex(valueCol)
	if valueIdx == -1 {
		return nil, &types.SchemaError{Column: valueCol}
	}

	samples := map[string][]float64{}
	for i, row := range ds.Rows {
		key, ok := rowKey(row, keyIdx, opts.policy())
		if !ok {
			continue
		}
		cell := strings.TrimSpace(row[valueIdx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &types.MalformedRowError{Row: i + 1, Column: valueCol, Value: row[valueIdx], Want: "number"}
		}
		samples[key] = append(samples[key], v)
	}

	keys := make([]string, 0, len(samples))
	for key := range samples {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})

	columns := append(append([]string{}, groupBy...), "mean", "median", "std", "min", "max", "count")
	table := &entity.Table{Columns: columns}

	for _, key := range keys {
		values := samples[key]
		sort.Float64s(values)

		row := append(splitKey(key),
			formatFloat(mean(values), 2),
			formatFloat(median(values), 2),
			formatFloat(sampleStd(values), 2),
			formatFloat(values[0], 2),
			formatFloat(values[len(values)-1], 2),
			strconv.Itoa(len(values)),
		)
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects values to be sorted.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
