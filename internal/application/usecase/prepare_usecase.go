package usecase

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hotelviz/flourish-prep/internal/application/reshape"
	"github.com/hotelviz/flourish-prep/internal/domain/entity"
	"github.com/hotelviz/flourish-prep/internal/domain/repository"
	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

// PrepareUseCase handles the main table preparation functionality.
type PrepareUseCase struct {
	datasetRepo repository.DatasetRepository
	exportRepo  repository.ExportRepository
	configRepo  repository.ConfigRepository
	console     types.ConsoleInterface
}

// NewPrepareUseCase creates a new prepare use case.
func NewPrepareUseCase(
	datasetRepo repository.DatasetRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *PrepareUseCase {
	return &PrepareUseCase{
		datasetRepo: datasetRepo,
		exportRepo:  exportRepo,
		configRepo:  configRepo,
		console:     console,
	}
}

// runSettings são as configurações efetivas da execução, depois de mesclar
// o arquivo de configuração com as flags da CLI (a CLI tem precedência).
type runSettings struct {
	input      string
	dir        string
	reportName string
	reportType []string
	flagColumn string
	options    reshape.Options
	jobs       []types.JobConfig
	chart      bool
}

// RunPrepare executa a funcionalidade principal: carrega o dataset, gera
// cada tabela pedida e exporta os arquivos de saída.
func (uc *PrepareUseCase) RunPrepare(ctx context.Context, args *types.CLIArgs) error {
	settings, err := uc.resolveSettings(args)
	if err != nil {
		return err
	}

	// Carrega o dataset de entrada
	status := uc.console.Status(fmt.Sprintf("Reading %s...", settings.input))
	dataset, err := uc.datasetRepo.LoadDataset(ctx, settings.input)
	if err != nil {
		status.Stop()
		return err
	}
	status.Update(fmt.Sprintf("Loaded %d rows from %s", dataset.Len(), settings.input))
	status.Stop()

	// Valida todos os jobs contra o cabeçalho antes de gerar qualquer
	// tabela: uma execução que vai falhar não deixa saída para trás.
	if err := uc.validateJobs(dataset, settings); err != nil {
		return err
	}

	report := &entity.RunReport{
		Input:     settings.input,
		InputRows: dataset.Len(),
	}
	report.CanceledRows, report.GlobalRate = uc.globalStats(dataset, settings.flagColumn)

	// Gera e exporta cada tabela
	progress := uc.console.ProgressWithTotal(len(settings.jobs))
	resultsTable := uc.console.CreateTable()
	resultsTable.AddColumn("Table")
	resultsTable.AddColumn("Kind")
	resultsTable.AddColumn("Rows")
	resultsTable.AddColumn("Files")

	var chartTable *entity.Table
	var chartGroups int

	for _, job := range settings.jobs {
		table, err := uc.runJob(dataset, job, settings)
		if err != nil {
			progress.Stop()
			return fmt.Errorf("table %q: %w", job.Name, err)
		}

		files, err := uc.exportTable(table, settings)
		if err != nil {
			progress.Stop()
			return fmt.Errorf("table %q: %w", job.Name, err)
		}

		report.Tables = append(report.Tables, entity.TableResult{
			Name:    table.Name,
			Kind:    jobKind(job),
			GroupBy: job.GroupBy,
			Rows:    table.Len(),
			Columns: len(table.Columns),
			Files:   files,
		})

		resultsTable.AddRow(table.Name, jobKind(job), table.Len(), strings.Join(files, "\n"))

		if chartTable == nil && jobKind(job) == "summary" {
			chartTable = table
			chartGroups = len(job.GroupBy)
		}

		progress.Increment()
	}
	progress.Stop()

	uc.console.Print(resultsTable.Render())

	if err := uc.exportRunReport(report, settings); err != nil {
		return err
	}

	if settings.chart {
		if chartTable != nil {
			uc.console.DisplayRateBars(uc.rateBars(chartTable, chartGroups))
		} else {
			uc.console.LogWarning("No summary table to chart; --chart needs at least one summary job")
		}
	}

	return nil
}

// resolveSettings mescla o arquivo de configuração com as flags da CLI e
// monta a lista de jobs a executar.
func (uc *PrepareUseCase) resolveSettings(args *types.CLIArgs) (*runSettings, error) {
	var config *types.Config
	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	settings := &runSettings{
		input:      args.Input,
		dir:        args.Dir,
		reportName: args.ReportName,
		reportType: args.ReportType,
		flagColumn: args.FlagColumn,
		chart:      args.Chart,
	}
	percent := args.Percent
	nullPolicy := args.NullPolicy

	if config != nil {
		if settings.input == "" {
			settings.input = config.Input
		}
		if settings.dir == "" {
			settings.dir = config.Dir
		}
		if settings.reportName == "" {
			settings.reportName = config.ReportName
		}
		if len(settings.reportType) == 0 {
			settings.reportType = config.ReportType
		}
		if settings.flagColumn == "" {
			settings.flagColumn = config.FlagColumn
		}
		if nullPolicy == "" {
			nullPolicy = config.NullPolicy
		}
		percent = percent || config.Percent
		settings.jobs = append(settings.jobs, config.Jobs...)
	}

	if settings.dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		settings.dir = cwd
	}
	if len(settings.reportType) == 0 {
		settings.reportType = []string{"csv"}
	}
	if settings.flagColumn == "" {
		settings.flagColumn = "is_canceled"
	}
	if settings.reportName == "" {
		settings.reportName = "flourish"
	}

	policy, err := parsePolicy(nullPolicy)
	if err != nil {
		return nil, err
	}
	settings.options = reshape.Options{
		Percent:    percent,
		NullPolicy: policy,
	}

	cliJob, err := buildCLIJob(args)
	if err != nil {
		return nil, err
	}
	if cliJob != nil {
		settings.jobs = append(settings.jobs, *cliJob)
	}

	if settings.input == "" {
		return nil, types.ErrNoInput
	}
	if len(settings.jobs) == 0 {
		return nil, types.ErrNoJobs
	}

	// Jobs sem nome recebem um nome derivado do tipo e da posição
	for i := range settings.jobs {
		if settings.jobs[i].Name == "" {
			settings.jobs[i].Name = fmt.Sprintf("%s_%d", jobKind(settings.jobs[i]), i+1)
		}
	}

	return settings, nil
}

// buildCLIJob monta um job a partir das flags diretas da CLI. Retorna nil
// quando as flags não descrevem nenhuma tabela (execução só por config).
func buildCLIJob(args *types.CLIArgs) (*types.JobConfig, error) {
	describes := len(args.GroupBy) > 0 || args.Timeline || args.StatsColumn != ""
	if !describes {
		return nil, nil
	}

	job := &types.JobConfig{
		GroupBy:        args.GroupBy,
		DateColumn:     args.DateColumn,
		Interval:       args.Interval,
		Metric:         args.Metric,
		StatsColumn:    args.StatsColumn,
		TotalOf:        args.TotalOf,
		BucketLeadTime: args.BucketLeadTime,
		DeriveMonth:    args.DeriveMonth,
	}

	switch {
	case args.Timeline:
		job.Kind = "timeline"
	case args.StatsColumn != "":
		job.Kind = "stats"
	case args.Pivot:
		job.Kind = "pivot"
	default:
		job.Kind = "summary"
	}
	job.Name = args.ReportName
	if job.Name == "" {
		job.Name = job.Kind
	}

	filters, err := parseFilters(args.Filters)
	if err != nil {
		return nil, err
	}
	job.Filters = filters

	if args.Top != "" {
		col, n, err := parseTop(args.Top)
		if err != nil {
			return nil, err
		}
		job.TopColumn = col
		job.TopN = n
	}

	return job, nil
}

// validateJobs confere cada job da execução contra o dataset carregado.
func (uc *PrepareUseCase) validateJobs(dataset *entity.Dataset, settings *runSettings) error {
	for _, job := range settings.jobs {
		if err := uc.validateJob(dataset, job, settings.flagColumn); err != nil {
			return fmt.Errorf("table %q: %w", job.Name, err)
		}
	}
	return nil
}

// validateJob confere as colunas que o job referencia (incluindo as
// derivadas, que só existem depois de WithLeadTimeBuckets/WithMonthNames)
// e o tipo do job.
func (uc *PrepareUseCase) validateJob(dataset *entity.Dataset, job types.JobConfig, flagCol string) error {
	derived := map[string]bool{}
	if job.BucketLeadTime != "" {
		if !dataset.HasColumn(job.BucketLeadTime) {
			return &types.SchemaError{Column: job.BucketLeadTime}
		}
		derived[reshape.LeadTimeColumn] = true
	}
	if job.DeriveMonth != "" {
		if !dataset.HasColumn(job.DeriveMonth) {
			return &types.SchemaError{Column: job.DeriveMonth}
		}
		derived[reshape.MonthColumn] = true
	}

	has := func(col string) error {
		if !dataset.HasColumn(col) && !derived[col] {
			return &types.SchemaError{Column: col}
		}
		return nil
	}

	for _, col := range job.GroupBy {
		if err := has(col); err != nil {
			return err
		}
	}
	for col := range job.Filters {
		if err := has(col); err != nil {
			return err
		}
	}
	if job.TopColumn != "" {
		if err := has(job.TopColumn); err != nil {
			return err
		}
	}

	switch jobKind(job) {
	case "summary", "pivot":
		return has(flagCol)
	case "timeline":
		if job.Interval != "" &&
			job.Interval != string(reshape.IntervalDaily) && job.Interval != string(reshape.IntervalWeekly) {
			return fmt.Errorf("unknown timeline interval %q", job.Interval)
		}
		if job.Metric != "" &&
			job.Metric != string(reshape.MetricBookings) && job.Metric != string(reshape.MetricCancelRate) {
			return fmt.Errorf("unknown timeline metric %q", job.Metric)
		}
		if err := has(job.DateColumn); err != nil {
			return err
		}
		return has(flagCol)
	case "stats":
		return has(job.StatsColumn)
	default:
		return fmt.Errorf("%q: %w", job.Kind, types.ErrUnknownJob)
	}
}

// runJob aplica colunas derivadas e filtros e despacha para a operação de
// remodelagem correspondente ao tipo do job.
func (uc *PrepareUseCase) runJob(dataset *entity.Dataset, job types.JobConfig, settings *runSettings) (*entity.Table, error) {
	ds := dataset
	var err error

	if job.BucketLeadTime != "" {
		ds, err = reshape.WithLeadTimeBuckets(ds, job.BucketLeadTime)
		if err != nil {
			return nil, err
		}
	}
	if job.DeriveMonth != "" {
		ds, err = reshape.WithMonthNames(ds, job.DeriveMonth)
		if err != nil {
			return nil, err
		}
	}

	// Ordena as colunas de filtro para uma aplicação determinística
	filterCols := make([]string, 0, len(job.Filters))
	for col := range job.Filters {
		filterCols = append(filterCols, col)
	}
	sort.Strings(filterCols)
	for _, col := range filterCols {
		ds, err = reshape.Include(ds, col, job.Filters[col])
		if err != nil {
			return nil, err
		}
	}

	if job.TopColumn != "" {
		ds, err = reshape.TopN(ds, job.TopColumn, job.TopN)
		if err != nil {
			return nil, err
		}
	}

	opts := settings.options
	opts.TotalOf = job.TotalOf

	var table *entity.Table
	switch jobKind(job) {
	case "summary":
		table, err = reshape.Summarize(ds, job.GroupBy, settings.flagColumn, opts)
	case "pivot":
		table, err = reshape.PivotStatus(ds, job.GroupBy, settings.flagColumn, opts)
	case "timeline":
		interval := reshape.Interval(job.Interval)
		if job.Interval == "" {
			interval = reshape.IntervalWeekly
		}
		metric := reshape.Metric(job.Metric)
		if job.Metric == "" {
			metric = reshape.MetricBookings
		}
		table, err = reshape.Timeline(ds, job.GroupBy, job.DateColumn, interval, metric, settings.flagColumn, opts)
	case "stats":
		table, err = reshape.SummarizeNumeric(ds, job.GroupBy, job.StatsColumn, opts)
	default:
		return nil, fmt.Errorf("%q: %w", job.Kind, types.ErrUnknownJob)
	}
	if err != nil {
		return nil, err
	}

	table.Name = job.Name
	return table, nil
}

// exportTable escreve a tabela em cada formato pedido e retorna os caminhos.
func (uc *PrepareUseCase) exportTable(table *entity.Table, settings *runSettings) ([]string, error) {
	var files []string
	filename := settings.reportName + "_" + table.Name
	if table.Name == settings.reportName {
		filename = table.Name
	}

	for _, reportType := range settings.reportType {
		switch reportType {
		case "csv":
			path, err := uc.exportRepo.ExportTableToCSV(table, filename, settings.dir)
			if err != nil {
				return nil, err
			}
			uc.console.LogSuccess("Successfully exported to CSV: %s", path)
			files = append(files, path)
		case "json":
			path, err := uc.exportRepo.ExportTableToJSON(table, filename, settings.dir)
			if err != nil {
				return nil, err
			}
			uc.console.LogSuccess("Successfully exported to JSON: %s", path)
			files = append(files, path)
		case "pdf":
			// O PDF é o relatório da execução inteira, exportado uma vez no final
		default:
			uc.console.LogWarning("Unknown report type %q, skipping", reportType)
		}
	}

	return files, nil
}

// exportRunReport exporta o relatório da execução quando pedido.
func (uc *PrepareUseCase) exportRunReport(report *entity.RunReport, settings *runSettings) error {
	for _, reportType := range settings.reportType {
		switch reportType {
		case "pdf":
			path, err := uc.exportRepo.ExportRunReportToPDF(report, settings.reportName+"_report", settings.dir)
			if err != nil {
				return err
			}
			uc.console.LogSuccess("Successfully exported run report to PDF: %s", path)
		case "json":
			path, err := uc.exportRepo.ExportRunReportToJSON(report, settings.reportName+"_report", settings.dir)
			if err != nil {
				return err
			}
			uc.console.LogSuccess("Successfully exported run report to JSON: %s", path)
		}
	}
	return nil
}

// globalStats calcula o total de cancelamentos e a taxa global do dataset.
// Linhas com flag ausente ou ilegível são ignoradas aqui; os jobs que
// dependem da flag reportam esses erros por conta própria.
func (uc *PrepareUseCase) globalStats(dataset *entity.Dataset, flagCol string) (int, float64) {
	idx := dataset.ColumnIndex(flagCol)
	if idx < 0 {
		return 0, 0
	}

	total := 0
	canceled := 0
	for i, row := range dataset.Rows {
		flagged, err := reshape.ParseFlag(row[idx], i+1, flagCol)
		if err != nil {
			continue
		}
		total++
		if flagged {
			canceled++
		}
	}

	if total == 0 {
		return 0, 0
	}
	return canceled, float64(canceled) / float64(total)
}

// rateBars converte uma tabela de resumo em entradas para o gráfico de
// barras do terminal. Linhas de total são omitidas.
func (uc *PrepareUseCase) rateBars(table *entity.Table, groupCols int) []types.GroupRate {
	var rates []types.GroupRate
	for _, row := range table.Rows {
		if len(row) < groupCols+3 {
			continue
		}
		// Total rows can sit on any grouping column, not just the first
		isTotal := false
		for _, cell := range row[:groupCols] {
			if cell == reshape.TotalGroup {
				isTotal = true
				break
			}
		}
		if isTotal {
			continue
		}

		total, err := strconv.Atoi(row[groupCols])
		if err != nil || total == 0 {
			continue
		}
		canceled, err := strconv.Atoi(row[groupCols+1])
		if err != nil {
			continue
		}

		rates = append(rates, types.GroupRate{
			Group: strings.Join(row[:groupCols], "-"),
			Rate:  float64(canceled) / float64(total),
			Total: total,
		})
	}
	return rates
}

// jobKind normaliza o tipo do job; jobs sem tipo explícito são resumos.
func jobKind(job types.JobConfig) string {
	if job.Kind == "" {
		return "summary"
	}
	return job.Kind
}

// parsePolicy valida a política de chaves vazias da execução.
func parsePolicy(value string) (reshape.NullPolicy, error) {
	switch value {
	case "", string(reshape.PolicyUnknown):
		return reshape.PolicyUnknown, nil
	case string(reshape.PolicyDrop):
		return reshape.PolicyDrop, nil
	default:
		return "", fmt.Errorf("%q: %w", value, types.ErrUnknownPolicy)
	}
}

// parseFilters converte flags --filter col=v1|v2 em um mapa coluna->valores.
func parseFilters(raw []string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make(map[string][]string, len(raw))
	for _, f := range raw {
		col, values, ok := strings.Cut(f, "=")
		if !ok || col == "" || values == "" {
			return nil, fmt.Errorf("invalid filter %q (expected col=value1|value2)", f)
		}
		filters[col] = append(filters[col], strings.Split(values, "|")...)
	}
	return filters, nil
}

// parseTop converte a flag --top col=N.
func parseTop(raw string) (string, int, error) {
	col, countStr, ok := strings.Cut(raw, "=")
	if !ok || col == "" {
		return "", 0, fmt.Errorf("invalid top filter %q (expected col=N)", raw)
	}
	n, err := strconv.Atoi(countStr)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid top filter %q (expected a positive count)", raw)
	}
	return col, n, nil
}
