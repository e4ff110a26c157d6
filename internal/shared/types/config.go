package types

// Config represents the application configuration that can be loaded from a file.
// Top-level fields are run defaults; Jobs describes every table to generate
// from a single pass over the input dataset.
type Config struct {
	Input      string      `json:"input" yaml:"input" toml:"input"`
	Dir        string      `json:"dir" yaml:"dir" toml:"dir"`
	ReportName string      `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string    `json:"report_type" yaml:"report_type" toml:"report_type"`
	FlagColumn string      `json:"flag_column" yaml:"flag_column" toml:"flag_column"`
	Percent    bool        `json:"percent" yaml:"percent" toml:"percent"`
	NullPolicy string      `json:"null_policy" yaml:"null_policy" toml:"null_policy"`
	Jobs       []JobConfig `json:"jobs" yaml:"jobs" toml:"jobs"`
}

// JobConfig describes one output table.
type JobConfig struct {
	Name           string              `json:"name" yaml:"name" toml:"name"`
	Kind           string              `json:"kind" yaml:"kind" toml:"kind"`
	GroupBy        []string            `json:"group_by" yaml:"group_by" toml:"group_by"`
	Filters        map[string][]string `json:"filters" yaml:"filters" toml:"filters"`
	TopColumn      string              `json:"top_column" yaml:"top_column" toml:"top_column"`
	TopN           int                 `json:"top_n" yaml:"top_n" toml:"top_n"`
	DateColumn     string              `json:"date_column" yaml:"date_column" toml:"date_column"`
	Interval       string              `json:"interval" yaml:"interval" toml:"interval"`
	Metric         string              `json:"metric" yaml:"metric" toml:"metric"`
	StatsColumn    string              `json:"stats_column" yaml:"stats_column" toml:"stats_column"`
	TotalOf        string              `json:"total_of" yaml:"total_of" toml:"total_of"`
	BucketLeadTime string              `json:"bucket_lead_time" yaml:"bucket_lead_time" toml:"bucket_lead_time"`
	DeriveMonth    string              `json:"derive_month" yaml:"derive_month" toml:"derive_month"`
}
