package usecase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelviz/flourish-prep/internal/adapter/driven/config"
	"github.com/hotelviz/flourish-prep/internal/adapter/driven/dataset"
	"github.com/hotelviz/flourish-prep/internal/adapter/driven/export"
	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
	"github.com/hotelviz/flourish-prep/pkg/console"
)

func newUseCase() *PrepareUseCase {
	return NewPrepareUseCase(
		dataset.NewDatasetRepository(),
		export.NewExportRepository(),
		config.NewConfigRepository(),
		console.NewConsole(),
	)
}

func writeBookings(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bookings.csv")
	content := "hotel,country,arrival_date,lead_time,adr,is_canceled\n" +
		"City Hotel,PRT,2024-01-02,5,80.0,1\n" +
		"City Hotel,PRT,2024-01-03,40,95.5,0\n" +
		"Resort Hotel,GBR,2024-01-09,200,120.0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunPrepare(t *testing.T) {
	t.Run("summary job writes the expected csv", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		args := &types.CLIArgs{
			Input:      input,
			GroupBy:    []string{"hotel"},
			ReportName: "cancel_rate",
			ReportType: []string{"csv"},
			Dir:        dir,
		}

		err := newUseCase().RunPrepare(context.Background(), args)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "cancel_rate.csv"))
		require.NoError(t, err)
		assert.Equal(t,
			"hotel,total,canceled,rate\nCity Hotel,2,1,0.5000\nResort Hotel,1,1,1.0000\n",
			string(data))
	})

	t.Run("json report type also writes the run report", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		args := &types.CLIArgs{
			Input:      input,
			GroupBy:    []string{"hotel"},
			ReportName: "cancel_rate",
			ReportType: []string{"json"},
			Dir:        dir,
		}

		err := newUseCase().RunPrepare(context.Background(), args)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "cancel_rate.json"))

		data, err := os.ReadFile(filepath.Join(dir, "cancel_rate_report.json"))
		require.NoError(t, err)

		var report entity.RunReport
		require.NoError(t, json.Unmarshal(data, &report))
		assert.Equal(t, 3, report.InputRows)
		assert.Equal(t, 2, report.CanceledRows)
		assert.InDelta(t, 2.0/3.0, report.GlobalRate, 1e-9)
		require.Len(t, report.Tables, 1)
		assert.Equal(t, "summary", report.Tables[0].Kind)
	})

	t.Run("config file drives multiple jobs", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		configPath := filepath.Join(dir, "prep.toml")
		configContent := `
input = "` + input + `"
dir = "` + dir + `"
report_name = "hotel"

[[jobs]]
name = "by_hotel"
kind = "summary"
group_by = ["hotel"]

[[jobs]]
name = "weekly"
kind = "timeline"
group_by = ["hotel"]
date_column = "arrival_date"
interval = "weekly"
metric = "bookings"

[[jobs]]
name = "adr"
kind = "stats"
group_by = ["hotel"]
stats_column = "adr"

[[jobs]]
name = "lead_time"
kind = "summary"
group_by = ["lead_time_group"]
bucket_lead_time = "lead_time"
`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		args := &types.CLIArgs{ConfigFile: configPath}

		err := newUseCase().RunPrepare(context.Background(), args)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "hotel_by_hotel.csv"))
		assert.FileExists(t, filepath.Join(dir, "hotel_weekly.csv"))
		assert.FileExists(t, filepath.Join(dir, "hotel_adr.csv"))
		assert.FileExists(t, filepath.Join(dir, "hotel_lead_time.csv"))

		data, err := os.ReadFile(filepath.Join(dir, "hotel_lead_time.csv"))
		require.NoError(t, err)
		assert.Equal(t,
			"lead_time_group,total,canceled,rate\n1-7,1,1,1.0000\n31-90,1,0,0.0000\n91-180,1,1,1.0000\n",
			string(data))
	})

	t.Run("cli flags override config defaults", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		configPath := filepath.Join(dir, "prep.toml")
		configContent := `
input = "does_not_exist.csv"
report_name = "from_config"

[[jobs]]
name = "by_hotel"
group_by = ["hotel"]
`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		args := &types.CLIArgs{
			ConfigFile: configPath,
			Input:      input,
			Dir:        dir,
		}

		err := newUseCase().RunPrepare(context.Background(), args)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "from_config_by_hotel.csv"))
	})

	t.Run("filters and top-n narrow the dataset", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		args := &types.CLIArgs{
			Input:      input,
			GroupBy:    []string{"country"},
			ReportName: "prt_only",
			ReportType: []string{"csv"},
			Dir:        dir,
			Filters:    []string{"hotel=City Hotel"},
		}

		err := newUseCase().RunPrepare(context.Background(), args)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "prt_only.csv"))
		require.NoError(t, err)
		assert.Equal(t, "country,total,canceled,rate\nPRT,2,1,0.5000\n", string(data))
	})

	t.Run("failed job leaves no output file behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bookings.csv")
		content := "hotel,is_canceled\nCity Hotel,1\nCity Hotel,maybe\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		args := &types.CLIArgs{
			Input:      path,
			GroupBy:    []string{"hotel"},
			ReportName: "broken",
			ReportType: []string{"csv"},
			Dir:        dir,
		}

		err := newUseCase().RunPrepare(context.Background(), args)

		var rowErr *types.MalformedRowError
		require.ErrorAs(t, err, &rowErr)
		assert.NoFileExists(t, filepath.Join(dir, "broken.csv"))
	})

	t.Run("bad column in a later job leaves no earlier output", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		configPath := filepath.Join(dir, "prep.toml")
		configContent := `
input = "` + input + `"
dir = "` + dir + `"
report_name = "hotel"

[[jobs]]
name = "good"
kind = "summary"
group_by = ["hotel"]

[[jobs]]
name = "bad"
kind = "summary"
group_by = ["no_such_column"]
`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		args := &types.CLIArgs{ConfigFile: configPath}

		err := newUseCase().RunPrepare(context.Background(), args)

		var schemaErr *types.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "no_such_column", schemaErr.Column)
		assert.NoFileExists(t, filepath.Join(dir, "hotel_good.csv"))
	})

	t.Run("job validation resolves derived columns", func(t *testing.T) {
		uc := newUseCase()
		ds := entity.NewDataset("bookings.csv",
			[]string{"hotel", "lead_time", "arrival_date", "is_canceled"}, nil)

		err := uc.validateJob(ds, types.JobConfig{
			GroupBy:        []string{"lead_time_group", "month"},
			BucketLeadTime: "lead_time",
			DeriveMonth:    "arrival_date",
		}, "is_canceled")
		assert.NoError(t, err)

		err = uc.validateJob(ds, types.JobConfig{
			GroupBy: []string{"lead_time_group"},
		}, "is_canceled")

		var schemaErr *types.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "lead_time_group", schemaErr.Column)
	})

	t.Run("missing input is rejected", func(t *testing.T) {
		args := &types.CLIArgs{GroupBy: []string{"hotel"}, Dir: t.TempDir()}

		err := newUseCase().RunPrepare(context.Background(), args)
		assert.ErrorIs(t, err, types.ErrNoInput)
	})

	t.Run("no jobs is rejected", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		args := &types.CLIArgs{Input: input, Dir: dir}

		err := newUseCase().RunPrepare(context.Background(), args)
		assert.ErrorIs(t, err, types.ErrNoJobs)
	})

	t.Run("unknown null policy is rejected", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		args := &types.CLIArgs{
			Input:      input,
			GroupBy:    []string{"hotel"},
			Dir:        dir,
			NullPolicy: "ignore",
		}

		err := newUseCase().RunPrepare(context.Background(), args)
		assert.ErrorIs(t, err, types.ErrUnknownPolicy)
	})

	t.Run("unknown job kind is rejected", func(t *testing.T) {
		dir := t.TempDir()
		input := writeBookings(t, dir)

		configPath := filepath.Join(dir, "prep.toml")
		configContent := `
input = "` + input + `"
dir = "` + dir + `"

[[jobs]]
name = "mystery"
kind = "histogram"
group_by = ["hotel"]
`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		args := &types.CLIArgs{ConfigFile: configPath}

		err := newUseCase().RunPrepare(context.Background(), args)
		assert.ErrorIs(t, err, types.ErrUnknownJob)
	})
}

func TestRateBars(t *testing.T) {
	uc := newUseCase()

	table := &entity.Table{
		Columns: []string{"month", "origin", "total", "canceled", "rate"},
		Rows: [][]string{
			{"January", "Agency", "4", "1", "0.2500"},
			{"January", "Online", "2", "1", "0.5000"},
			{"January", "Total", "6", "2", "0.3333"},
			{"Total", "Online", "2", "1", "0.5000"},
		},
	}

	rates := uc.rateBars(table, 2)

	require.Len(t, rates, 2)
	assert.Equal(t, "January-Agency", rates[0].Group)
	assert.InDelta(t, 0.25, rates[0].Rate, 1e-9)
	assert.Equal(t, 4, rates[0].Total)
	assert.Equal(t, "January-Online", rates[1].Group)
}

func TestBuildCLIJob(t *testing.T) {
	t.Run("no table flags means no job", func(t *testing.T) {
		job, err := buildCLIJob(&types.CLIArgs{})
		require.NoError(t, err)
		assert.Nil(t, job)
	})

	t.Run("kind follows the mode flags", func(t *testing.T) {
		tests := []struct {
			name string
			args types.CLIArgs
			want string
		}{
			{"plain group-by is a summary", types.CLIArgs{GroupBy: []string{"hotel"}}, "summary"},
			{"pivot flag", types.CLIArgs{GroupBy: []string{"hotel"}, Pivot: true}, "pivot"},
			{"timeline flag", types.CLIArgs{GroupBy: []string{"hotel"}, Timeline: true}, "timeline"},
			{"stats column", types.CLIArgs{GroupBy: []string{"hotel"}, StatsColumn: "adr"}, "stats"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				job, err := buildCLIJob(&tt.args)
				require.NoError(t, err)
				require.NotNil(t, job)
				assert.Equal(t, tt.want, job.Kind)
			})
		}
	})

	t.Run("filters parse into the column map", func(t *testing.T) {
		job, err := buildCLIJob(&types.CLIArgs{
			GroupBy: []string{"hotel"},
			Filters: []string{"hotel=City Hotel|Resort Hotel", "country=PRT"},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string][]string{
			"hotel":   {"City Hotel", "Resort Hotel"},
			"country": {"PRT"},
		}, job.Filters)
	})

	t.Run("malformed filter is rejected", func(t *testing.T) {
		_, err := buildCLIJob(&types.CLIArgs{
			GroupBy: []string{"hotel"},
			Filters: []string{"no-equals-sign"},
		})
		assert.Error(t, err)
	})

	t.Run("top flag parses column and count", func(t *testing.T) {
		job, err := buildCLIJob(&types.CLIArgs{
			GroupBy: []string{"country"},
			Top:     "country=10",
		})
		require.NoError(t, err)

		assert.Equal(t, "country", job.TopColumn)
		assert.Equal(t, 10, job.TopN)
	})

	t.Run("malformed top flag is rejected", func(t *testing.T) {
		for _, raw := range []string{"country", "country=", "country=zero", "country=-1"} {
			_, err := buildCLIJob(&types.CLIArgs{GroupBy: []string{"country"}, Top: raw})
			assert.Error(t, err, raw)
		}
	})
}
