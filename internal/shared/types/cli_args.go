package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile     string
	Input          string
	GroupBy        []string
	FlagColumn     string
	ReportName     string
	ReportType     []string
	Dir            string
	Pivot          bool
	Timeline       bool
	DateColumn     string
	Interval       string
	Metric         string
	StatsColumn    string
	Percent        bool
	NullPolicy     string
	Filters        []string
	Top            string
	BucketLeadTime string
	DeriveMonth    string
	TotalOf        string
	Chart          bool
}
