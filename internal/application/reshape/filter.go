package reshape

import (
	"sort"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// Include keeps only the rows whose cell in col matches one of values.
func Include(ds *entity.Dataset, col string, values []string) (*entity.Dataset, error) {
	idx := ds.ColumnIndex(col)
	if idx == -1 {
		return nil, &types.SchemaError{Column: col}
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[strings.TrimSpace(v)] = struct{}{}
	}
	return ds.Select(func(row []string) bool {
		_, ok := allowed[strings.TrimSpace(row[idx])]
		return ok
	}), nil
}

// TopN keeps only the rows whose cell in col is among the n most frequent
// values of that column. Ties break on the value itself so the selection is
// reproducible.
func TopN(ds *entity.Dataset, col string, n int) (*entity.Dataset, error) {
	idx := ds.ColumnIndex(col)
	if idx == -1 {
		return nil, &types.SchemaError{Column: col}
	}
	if n <= 0 {
		return ds, nil
	}

	freq := map[string]int{}
	for _, row := range ds.Rows {
		freq[strings.TrimSpace(row[idx])]++
	}

	values := make([]string, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if freq[values[i]] != freq[values[j]] {
			return freq[values[i]] > freq[values[j]]
		}
		return values[i] < values[j]
	})
	if n < len(values) {
		values = values[:n]
	}

	return Include(ds, col, values)
}
