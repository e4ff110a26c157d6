package reshape

import (
	"strconv"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// LeadTimeColumn is the name of the derived lead-time bucket column.
const LeadTimeColumn = "lead_time_group"

// MonthColumn is the name of the derived month-name column.
const MonthColumn = "month"

// LeadTimeBucket sorts a booking lead time (days before arrival) into the
// ranges the published heatmaps use.
func LeadTimeBucket(days int) string {
	switch {
	case days <= 0:
		return "0"
	case days <= 7:
		return "1-7"
	case days <= 15:
		return "8-15"
	case days <= 30:
		return "16-30"
	case days <= 90:
		return "31-90"
	case days <= 180:
		return "91-180"
	case days <= 365:
		return "181-365"
	default:
		return "+365"
	}
}

// WithLeadTimeBuckets adds the lead_time_group column derived from a numeric
// lead-time column. Cells that do not parse derive an empty value, which the
// run's null-key policy then buckets or drops like any other missing key.
func WithLeadTimeBuckets(ds *entity.Dataset, leadTimeCol string) (*entity.Dataset, error) {
	idx := ds.ColumnIndex(leadTimeCol)
	if idx == -1 {
		return nil, &types.SchemaError{Column: leadTimeCol}
	}
	return ds.WithColumn(LeadTimeColumn, func(row []string) string {
		v := strings.TrimSpace(row[idx])
		days, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ""
		}
		return LeadTimeBucket(int(days))
	}), nil
}

// WithMonthNames adds the month column (January..December) derived from a
// date column. Unparseable dates derive an empty value, handled by the
// null-key policy.
func WithMonthNames(ds *entity.Dataset, dateCol string) (*entity.Dataset, error) {
	idx := ds.ColumnIndex(dateCol)
	if idx == -1 {
		return nil, &types.SchemaError{Column: dateCol}
	}
	return ds.WithColumn(MonthColumn, func(row []string) string {
		t, ok := parseDate(row[idx])
		if !ok {
			return ""
		}
		return t.Month().String()
	}), nil
}
