package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetColumnIndex(t *testing.T) {
	ds := NewDataset("bookings.csv", []string{"hotel", "is_canceled"}, nil)

	assert.Equal(t, 0, ds.ColumnIndex("hotel"))
	assert.Equal(t, 1, ds.ColumnIndex("is_canceled"))
	assert.Equal(t, -1, ds.ColumnIndex("country"))
	assert.True(t, ds.HasColumn("hotel"))
	assert.False(t, ds.HasColumn("country"))
}

func TestDatasetWithColumn(t *testing.T) {
	ds := NewDataset("bookings.csv",
		[]string{"hotel"},
		[][]string{{"A"}, {"B"}},
	)

	derived := ds.WithColumn("twice", func(row []string) string {
		return row[0] + row[0]
	})

	assert.Equal(t, []string{"hotel", "twice"}, derived.Columns)
	assert.Equal(t, [][]string{{"A", "AA"}, {"B", "BB"}}, derived.Rows)

	// the source dataset is untouched
	assert.Equal(t, []string{"hotel"}, ds.Columns)
	assert.Equal(t, [][]string{{"A"}, {"B"}}, ds.Rows)
}

func TestDatasetSelect(t *testing.T) {
	ds := NewDataset("bookings.csv",
		[]string{"hotel"},
		[][]string{{"A"}, {"B"}, {"A"}},
	)

	kept := ds.Select(func(row []string) bool { return row[0] == "A" })

	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 3, ds.Len())
}
