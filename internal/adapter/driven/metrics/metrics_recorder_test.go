package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

func TestObserveFetch(t *testing.T) {
	r := NewPrometheusRecorder("")

	r.ObserveFetch("project-A", 10, nil, time.Second)
	r.ObserveFetch("project-B", 5, nil, 2*time.Second)
	r.ObserveFetch("project-C", 0, errors.New("timeout"), time.Minute)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchTotal.WithLabelValues("failure")))
	assert.Equal(t, 15.0, testutil.ToFloat64(r.filesListed))
	assert.Equal(t, 1, testutil.CollectAndCount(r.fetchDuration))
}

func TestObserveRun(t *testing.T) {
	r := NewPrometheusRecorder("")

	r.ObserveRun(entity.RunSummary{
		RunDate:           time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		Projects:          3,
		DistinctFiles:     2,
		EmptyProjects:     []string{"project-C"},
		FailedProjects:    []string{"project-C"},
		DroppedFromUnique: 1,
		UniqueSize:        11,
		UniqueCost:        0.5,
		TotalSize:         21,
		TotalCost:         0.9,
		Duration:          90 * time.Second,
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.projects.WithLabelValues("registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.projects.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.projects.WithLabelValues("dropped_from_unique")))
	assert.Equal(t, 21.0, testutil.ToFloat64(r.storageBytes.WithLabelValues("total")))
	assert.Equal(t, 0.5, testutil.ToFloat64(r.dailyCost.WithLabelValues("unique")))
	assert.Equal(t, 90.0, testutil.ToFloat64(r.runDuration))
	assert.Equal(t, float64(1775779200), testutil.ToFloat64(r.lastRun))
}

func TestFlush(t *testing.T) {
	file := filepath.Join(t.TempDir(), "finops.prom")
	r := NewPrometheusRecorder(file)
	r.ObserveFetch("project-A", 1, nil, time.Millisecond)

	require.NoError(t, r.Flush())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `genomics_finops_file_listings_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "genomics_finops_files_listed_total 1")
}

func TestFlush_NoFile(t *testing.T) {
	assert.NoError(t, NewPrometheusRecorder("").Flush())
}
