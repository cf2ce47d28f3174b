package mocks

import (
	"context"
	"time"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// PlatformRepository is a mock for repository.PlatformRepository.
type PlatformRepository struct {
	mock.Mock
}

func (m *PlatformRepository) Whoami(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *PlatformRepository) ListProjects(ctx context.Context, org string) ([]entity.Project, error) {
	args := m.Called(ctx, org)
	if list, ok := args.Get(0).([]entity.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PlatformRepository) ListFiles(ctx context.Context, projectID string) ([]entity.RawFile, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]entity.RawFile); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CostRepository is a mock for repository.CostRepository.
type CostRepository struct {
	mock.Mock
}

func (m *CostRepository) SaveRun(ctx context.Context, summary entity.RunSummary, projects []entity.Project, costs []entity.ProjectStorageCost) error {
	args := m.Called(ctx, summary, projects, costs)
	return args.Error(0)
}

func (m *CostRepository) ProjectCosts(ctx context.Context, day time.Time) ([]entity.ProjectStorageCost, error) {
	args := m.Called(ctx, day)
	if list, ok := args.Get(0).([]entity.ProjectStorageCost); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CostRepository) DailyTotals(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.DailyStorageCost, error) {
	args := m.Called(ctx, scope, from, to)
	if list, ok := args.Get(0).([]entity.DailyStorageCost); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExportRepository is a mock for repository.ExportRepository.
type ExportRepository struct {
	mock.Mock
}

func (m *ExportRepository) ExportToCSV(report entity.StorageReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *ExportRepository) ExportToJSON(report entity.StorageReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *ExportRepository) ExportToPDF(report entity.StorageReport, filename, outputDir string) (string, error) {
	args := m.Called(report, filename, outputDir)
	return args.String(0), args.Error(1)
}

// ReportUploader is a mock for repository.ReportUploader.
type ReportUploader struct {
	mock.Mock
}

func (m *ReportUploader) Identity(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *ReportUploader) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

// MetricsRecorder is a mock for repository.MetricsRecorder.
type MetricsRecorder struct {
	mock.Mock
}

func (m *MetricsRecorder) ObserveFetch(projectID string, files int, err error, took time.Duration) {
	m.Called(projectID, files, err, took)
}

func (m *MetricsRecorder) ObserveRun(summary entity.RunSummary) {
	m.Called(summary)
}

func (m *MetricsRecorder) Flush() error {
	args := m.Called()
	return args.Error(0)
}
