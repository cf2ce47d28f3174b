package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile   string
	Database     string
	Organization string
	APIServer    string
	LiveRate     float64
	ArchivedRate float64
	Workers      int
	FetchTimeout string
	RunDate      string
	ReportName   string
	ReportType   []string
	Dir          string
	S3Bucket     string
	S3Prefix     string
	AWSProfile   string
	AWSRegion    string
	MetricsFile  string
	Schedule     string
	TrendDays    int
	Scope        string

	// Changed holds the names of flags set explicitly on the command line.
	// Only those override values from the config file and environment.
	Changed map[string]bool
}
