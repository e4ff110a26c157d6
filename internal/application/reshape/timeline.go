package reshape

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// Interval is the time bucket width of a timeline table.
type Interval string

const (
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly" // buckets start on Monday
)

// Metric is the value a timeline cell carries.
type Metric string

const (
	MetricBookings   Metric = "bookings"
	MetricCancelRate Metric = "cancel-rate" // percentage in [0, 100], 2 decimals
)

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// Timeline buckets a date column daily or weekly, groups rows by the
// dimension columns and pivots the buckets into sorted columns. The grouping
// columns are combined into a single leading "Label" column joined with "-",
// the shape the chart tool's line-chart ingests. Rows whose date cell cannot
// be parsed are dropped. Cells without data are zero-filled.
func Timeline(ds *entity.Dataset, groupBy []string, dateCol string, interval Interval, metric Metric, flagCol string, opts Options) (*entity.Table, error) {
	keyIdx, flagIdx, err := resolveColumns(ds, groupBy, flagCol)
	if err != nil {
		return nil, err
	}
	dateIdx := ds.ColumnIndex(dateCol)
	if dateIdx == -1 {
		return nil, &types.SchemaError{Column: dateCol}
	}
	if interval != IntervalDaily && interval != IntervalWeekly {
		return nil, fmt.Errorf("unknown timeline interval %q", interval)
	}
	if metric != MetricBookings && metric != MetricCancelRate {
		return nil, fmt.Errorf("unknown timeline metric %q", metric)
	}

	// group key → bucket → (total, canceled)
	cells := map[string]map[string]*counter{}
	buckets := map[string]struct{}{}

	for i, row := range ds.Rows {
		key, ok := rowKey(row, keyIdx, opts.policy())
		if !ok {
			continue
		}
		day, ok := parseDate(row[dateIdx])
		if !ok {
			continue
		}
		if interval == IntervalWeekly {
			day = weekStart(day)
		}
		bucket := day.Format("2006-01-02")
		buckets[bucket] = struct{}{}

		canceled := false
		if metric == MetricCancelRate {
			canceled, err = ParseFlag(row[flagIdx], i+1, flagCol)
			if err != nil {
				return nil, err
			}
		}

		group := cells[key]
		if group == nil {
			group = map[string]*counter{}
			cells[key] = group
		}
		c := group[bucket]
		if c == nil {
			c = &counter{}
			group[bucket] = c
		}
		c.total++
		if canceled {
			c.canceled++
		}
	}

	bucketCols := make([]string, 0, len(buckets))
	for b := range buckets {
		bucketCols = append(bucketCols, b)
	}
	sort.Strings(bucketCols)

	table := &entity.Table{Columns: append([]string{"Label"}, bucketCols...)}

	keys := make([]string, 0, len(cells))
	for key := range cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})

	for _, key := range keys {
		row := make([]string, 0, len(bucketCols)+1)
		row = append(row, strings.Join(splitKey(key), "-"))
		for _, bucket := range bucketCols {
			c := cells[key][bucket]
			switch {
			case c == nil && metric == MetricCancelRate:
				row = append(row, formatFloat(0, 2))
			case c == nil:
				row = append(row, "0")
			case metric == MetricCancelRate:
				row = append(row, formatFloat(float64(c.canceled)/float64(c.total)*100, 2))
			default:
				row = append(row, strconv.Itoa(c.total))
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func parseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// weekStart truncates a date to the Monday of its week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}
