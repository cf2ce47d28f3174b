package entity

import "time"

// RunSummary describes one billing run. Counters are diagnostics only; the
// per-project costs live in StorageReport.Projects.
type RunSummary struct {
	RunID       string       `json:"run_id"`
	RunDate     time.Time    `json:"run_date"`
	DaysInMonth int          `json:"days_in_month"`
	Rates       StorageRates `json:"rates"`

	Projects          int `json:"projects"`
	FileRecords       int `json:"file_records"`
	DistinctFiles     int `json:"distinct_files"`
	OrphanRecords     int `json:"orphan_records,omitempty"`
	StateAnomalies    int `json:"state_anomalies,omitempty"`
	DroppedFromUnique int `json:"dropped_from_unique"`

	EmptyProjects  []string `json:"empty_projects"`
	FailedProjects []string `json:"failed_projects,omitempty"`

	UniqueSize int64   `json:"unique_size"`
	UniqueCost float64 `json:"unique_cost"`
	TotalSize  int64   `json:"total_size"`
	TotalCost  float64 `json:"total_cost"`

	Duration time.Duration `json:"duration"`
}
