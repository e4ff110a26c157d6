package cli

import (
	"context"
	"path/filepath"

	"github.com/hotelviz/flourish-prep/pkg/version"

	"github.com/hotelviz/flourish-prep/internal/application/usecase"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd        *cobra.Command
	prepareUseCase *usecase.PrepareUseCase
	version        string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "flourish-prep",
		Short:   "Hotel booking CSV reshaper for Flourish charts",
		Version: formattedVersion, // Use a versão formatada
		RunE:    app.runCommand,
	}

	// Personaliza a template para incluir mais informações de versão
	rootCmd.SetVersionTemplate(`{{printf "Flourish Prep version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file describing the tables to generate")
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to the hotel bookings CSV file")
	rootCmd.PersistentFlags().StringSliceP("group-by", "g", nil, "Columns to group by, e.g., --group-by hotel,country")
	rootCmd.PersistentFlags().String("flag-col", "", "Boolean column that marks a canceled booking (default: is_canceled)")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the output files (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf (default: csv)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the output files (default: current directory)")
	rootCmd.PersistentFlags().Bool("pivot", false, "Produce a status pivot table (Canceled / Not Canceled counts and percentages)")
	rootCmd.PersistentFlags().Bool("timeline", false, "Produce a timeline table with one column per date bucket")
	rootCmd.PersistentFlags().String("date-col", "", "Date column used by --timeline and --derive-month")
	rootCmd.PersistentFlags().String("interval", "weekly", "Timeline bucket interval: daily or weekly")
	rootCmd.PersistentFlags().String("metric", "bookings", "Timeline cell metric: bookings or cancel-rate")
	rootCmd.PersistentFlags().String("stats", "", "Produce numeric summary statistics (mean, median, std, min, max, count) for the given column")
	rootCmd.PersistentFlags().Bool("percent", false, "Emit rates in the 0-100 range with 2 decimals instead of 0-1 fractions")
	rootCmd.PersistentFlags().String("null-policy", "", "How to treat rows with empty group keys: unknown or drop")
	rootCmd.PersistentFlags().StringSlice("filter", nil, "Keep only rows matching col=v1|v2, e.g., --filter hotel=Resort Hotel")
	rootCmd.PersistentFlags().String("top", "", "Keep only the N most frequent values of a column, e.g., --top country=10")
	rootCmd.PersistentFlags().String("bucket-lead-time", "", "Derive a lead_time_group column from the given numeric column")
	rootCmd.PersistentFlags().String("derive-month", "", "Derive a month name column from the given date column")
	rootCmd.PersistentFlags().String("total-of", "", "Append Total rows that collapse the given group column")
	rootCmd.PersistentFlags().Bool("chart", false, "Display a cancellation rate bar chart in the terminal")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	input, _ := app.rootCmd.Flags().GetString("input")
	groupBy, _ := app.rootCmd.Flags().GetStringSlice("group-by")
	flagCol, _ := app.rootCmd.Flags().GetString("flag-col")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")
	pivot, _ := app.rootCmd.Flags().GetBool("pivot")
	timeline, _ := app.rootCmd.Flags().GetBool("timeline")
	dateCol, _ := app.rootCmd.Flags().GetString("date-col")
	interval, _ := app.rootCmd.Flags().GetString("interval")
	metric, _ := app.rootCmd.Flags().GetString("metric")
	stats, _ := app.rootCmd.Flags().GetString("stats")
	percent, _ := app.rootCmd.Flags().GetBool("percent")
	nullPolicy, _ := app.rootCmd.Flags().GetString("null-policy")
	filters, _ := app.rootCmd.Flags().GetStringSlice("filter")
	top, _ := app.rootCmd.Flags().GetString("top")
	bucketLeadTime, _ := app.rootCmd.Flags().GetString("bucket-lead-time")
	deriveMonth, _ := app.rootCmd.Flags().GetString("derive-month")
	totalOf, _ := app.rootCmd.Flags().GetString("total-of")
	chart, _ := app.rootCmd.Flags().GetBool("chart")

	// Convert to absolute path; a config file may still provide the
	// directory, so the current-directory default is applied later.
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:     configFile,
		Input:          input,
		GroupBy:        groupBy,
		FlagColumn:     flagCol,
		ReportName:     reportName,
		ReportType:     reportType,
		Dir:            dir,
		Pivot:          pivot,
		Timeline:       timeline,
		DateColumn:     dateCol,
		Interval:       interval,
		Metric:         metric,
		StatsColumn:    stats,
		Percent:        percent,
		NullPolicy:     nullPolicy,
		Filters:        filters,
		Top:            top,
		BucketLeadTime: bucketLeadTime,
		DeriveMonth:    deriveMonth,
		TotalOf:        totalOf,
		Chart:          chart,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	// Analisa os argumentos da linha de comando
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	// Executa a preparação das tabelas
	ctx := context.Background()
	return app.prepareUseCase.RunPrepare(ctx, cliArgs)
}

// SetPrepareUseCase sets the prepare use case for the CLI app.
func (app *CLIApp) SetPrepareUseCase(useCase *usecase.PrepareUseCase) {
	app.prepareUseCase = useCase
}
