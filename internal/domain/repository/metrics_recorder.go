package repository

import (
	"time"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// MetricsRecorder collects run metrics.
type MetricsRecorder interface {
	ObserveFetch(projectID string, files int, err error, took time.Duration)
	ObserveRun(summary entity.RunSummary)
	Flush() error
}
