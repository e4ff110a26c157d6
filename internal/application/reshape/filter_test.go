package reshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

func TestInclude(t *testing.T) {
	t.Run("keeps only matching rows", func(t *testing.T) {
		ds := bookings(
			[]string{"country", "is_canceled"},
			[][]string{
				{"PRT", "1"},
				{"GBR", "0"},
				{"FRA", "1"},
			},
		)

		filtered, err := Include(ds, "country", []string{"PRT", "FRA"})
		require.NoError(t, err)

		assert.Equal(t, 2, filtered.Len())
		assert.Equal(t, "PRT", filtered.Rows[0][0])
		assert.Equal(t, "FRA", filtered.Rows[1][0])
	})

	t.Run("matching ignores surrounding whitespace", func(t *testing.T) {
		ds := bookings([]string{"country"}, [][]string{{" PRT "}})

		filtered, err := Include(ds, "country", []string{"PRT"})
		require.NoError(t, err)

		assert.Equal(t, 1, filtered.Len())
	})

	t.Run("missing column is a schema error", func(t *testing.T) {
		ds := bookings([]string{"hotel"}, [][]string{{"A"}})

		_, err := Include(ds, "country", []string{"PRT"})

		var schemaErr *types.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "country", schemaErr.Column)
	})
}

func TestTopN(t *testing.T) {
	t.Run("keeps the most frequent values", func(t *testing.T) {
		ds := bookings(
			[]string{"country"},
			[][]string{
				{"PRT"}, {"PRT"}, {"PRT"},
				{"GBR"}, {"GBR"},
				{"FRA"},
			},
		)

		filtered, err := TopN(ds, "country", 2)
		require.NoError(t, err)

		assert.Equal(t, 5, filtered.Len())
		for _, row := range filtered.Rows {
			assert.NotEqual(t, "FRA", row[0])
		}
	})

	t.Run("frequency ties break on the value", func(t *testing.T) {
		ds := bookings(
			[]string{"country"},
			[][]string{
				{"PRT"}, {"GBR"}, {"FRA"},
			},
		)

		filtered, err := TopN(ds, "country", 2)
		require.NoError(t, err)

		require.Equal(t, 2, filtered.Len())
		assert.Equal(t, "GBR", filtered.Rows[0][0])
		assert.Equal(t, "FRA", filtered.Rows[1][0])
	})

	t.Run("n larger than distinct values keeps everything", func(t *testing.T) {
		ds := bookings([]string{"country"}, [][]string{{"PRT"}, {"GBR"}})

		filtered, err := TopN(ds, "country", 10)
		require.NoError(t, err)

		assert.Equal(t, 2, filtered.Len())
	})

	t.Run("non-positive n is a no-op", func(t *testing.T) {
		ds := bookings([]string{"country"}, [][]string{{"PRT"}, {"GBR"}})

		filtered, err := TopN(ds, "country", 0)
		require.NoError(t, err)

		assert.Same(t, ds, filtered)
	})
}
