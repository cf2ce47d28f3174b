package types

import "time"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Organization string  `json:"organization" yaml:"organization" toml:"organization"`
	APIServer    string  `json:"api_server" yaml:"api_server" toml:"api_server"`
	LiveRate     float64 `json:"live_storage_cost_per_gib_month" yaml:"live_storage_cost_per_gib_month" toml:"live_storage_cost_per_gib_month"`
	ArchivedRate float64 `json:"archived_storage_cost_per_gib_month" yaml:"archived_storage_cost_per_gib_month" toml:"archived_storage_cost_per_gib_month"`
	Workers      int     `json:"workers" yaml:"workers" toml:"workers"`
	FetchTimeout string  `json:"fetch_timeout" yaml:"fetch_timeout" toml:"fetch_timeout"`
	Database     string  `json:"database" yaml:"database" toml:"database"`

	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`

	S3Bucket   string `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix   string `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	AWSProfile string `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	AWSRegion  string `json:"aws_region" yaml:"aws_region" toml:"aws_region"`

	MetricsFile string `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
	Schedule    string `json:"schedule" yaml:"schedule" toml:"schedule"`

	// Never read from files.
	APIToken string    `json:"-" yaml:"-" toml:"-"`
	RunDate  time.Time `json:"-" yaml:"-" toml:"-"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		APIServer:    "https://api.dnanexus.com",
		LiveRate:     0.023,
		ArchivedRate: 0.0025,
		Workers:      5,
		FetchTimeout: "10m",
		Database:     "finops.db",
		ReportType:   []string{"csv"},
		Schedule:     "0 2 * * *",
	}
}

// FetchTimeoutDuration parses FetchTimeout. An empty value disables the timeout.
func (c Config) FetchTimeoutDuration() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.FetchTimeout)
}
