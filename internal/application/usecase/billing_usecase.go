package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/diillson/genomics-finops-go/internal/domain/billing"
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// BillingUseCase runs the daily storage billing job.
type BillingUseCase struct {
	platformRepo repository.PlatformRepository
	costRepo     repository.CostRepository
	exportRepo   repository.ExportRepository
	uploader     repository.ReportUploader
	metrics      repository.MetricsRecorder
	console      types.ConsoleInterface
	now          func() time.Time
}

// NewBillingUseCase creates a new billing use case.
func NewBillingUseCase(
	platformRepo repository.PlatformRepository,
	costRepo repository.CostRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *BillingUseCase {
	return &BillingUseCase{
		platformRepo: platformRepo,
		costRepo:     costRepo,
		exportRepo:   exportRepo,
		metrics:      nopMetrics{},
		console:      console,
		now:          time.Now,
	}
}

// SetUploader enables uploading exported reports.
func (uc *BillingUseCase) SetUploader(uploader repository.ReportUploader) {
	uc.uploader = uploader
}

// SetMetrics sets the metrics recorder. A nil recorder disables metrics.
func (uc *BillingUseCase) SetMetrics(metrics repository.MetricsRecorder) {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	uc.metrics = metrics
}

// SetClock overrides the wall clock.
func (uc *BillingUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// RunStorageBilling fetches the inventory, computes both cost views,
// persists them for the run date and reports the outcome.
//
// Only failures that leave nothing to bill abort the run: a rejected login,
// a failed project listing or a failed write. Failed file listings are
// logged and billed as empty projects.
func (uc *BillingUseCase) RunStorageBilling(ctx context.Context, cfg *types.Config) (*entity.StorageReport, error) {
	started := time.Now()
	now := uc.now()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	fetchTimeout, err := cfg.FetchTimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid fetch timeout %q: %w", cfg.FetchTimeout, err)
	}

	runDate := cfg.RunDate
	if runDate.IsZero() {
		runDate = now
	}
	runDate = truncateDay(runDate)

	status := uc.console.Status("Authenticating with the platform...")
	user, err := uc.platformRepo.Whoami(ctx)
	if err != nil {
		status.Stop()
		return nil, fmt.Errorf("login failed: %w", err)
	}

	status.Update(fmt.Sprintf("Listing projects billed to %s...", cfg.Organization))
	projects, err := uc.platformRepo.ListProjects(ctx, cfg.Organization)
	status.Stop()
	if err != nil {
		return nil, fmt.Errorf("error listing projects for %s: %w", cfg.Organization, err)
	}
	uc.console.LogInfo("Authenticated as %s, found %d projects billed to %s", user, len(projects), cfg.Organization)

	listings, err := uc.fetchInventory(ctx, projects, cfg.Workers, fetchTimeout)
	if err != nil {
		return nil, err
	}

	rates := entity.StorageRates{LivePerGiBMonth: cfg.LiveRate, ArchivedPerGiBMonth: cfg.ArchivedRate}
	days := billing.DaysInMonth(now.UTC())
	result, err := billing.Compute(billing.Input{
		Projects:    projects,
		Listings:    listings,
		Rates:       rates,
		DaysInMonth: days,
	})
	if err != nil {
		return nil, err
	}

	totals := billing.Totals(result.Rows)
	summary := entity.RunSummary{
		RunID:             uuid.NewString(),
		RunDate:           runDate,
		DaysInMonth:       days,
		Rates:             rates,
		Projects:          len(projects),
		FileRecords:       result.FileRecords,
		DistinctFiles:     result.DistinctFiles,
		OrphanRecords:     result.Orphans,
		StateAnomalies:    result.StateAnomalies,
		DroppedFromUnique: len(result.DroppedFromUnique),
		EmptyProjects:     result.EmptyProjects,
		FailedProjects:    failedProjects(listings),
		UniqueSize:        totals[entity.ScopeUnique].Size,
		UniqueCost:        totals[entity.ScopeUnique].Cost,
		TotalSize:         totals[entity.ScopeTotal].Size,
		TotalCost:         totals[entity.ScopeTotal].Cost,
	}

	if err := uc.costRepo.SaveRun(ctx, summary, projects, result.Costs); err != nil {
		return nil, fmt.Errorf("error saving storage costs for %s: %w", runDate.Format(dayLayout), err)
	}

	summary.Duration = time.Since(started)
	report := &entity.StorageReport{Summary: summary, Projects: result.Costs}

	uc.displayReport(report)
	uc.logDiagnostics(summary, result.DroppedFromUnique)
	uc.exportReport(ctx, report, cfg)

	uc.metrics.ObserveRun(summary)
	if err := uc.metrics.Flush(); err != nil {
		uc.console.LogWarning("Failed to write metrics: %s", err)
	}

	uc.console.LogSuccess("Storage costs for %s saved (%d projects, run %s)", runDate.Format(dayLayout), len(result.Costs), summary.RunID)
	return report, nil
}

// ShowStoredCosts prints the persisted breakdown of one day.
func (uc *BillingUseCase) ShowStoredCosts(ctx context.Context, day time.Time) ([]entity.ProjectStorageCost, error) {
	costs, err := uc.costRepo.ProjectCosts(ctx, truncateDay(day))
	if err != nil {
		return nil, fmt.Errorf("error loading storage costs for %s: %w", day.Format(dayLayout), err)
	}
	uc.console.Print(uc.costTable(costs).Render())
	return costs, nil
}

func (uc *BillingUseCase) logDiagnostics(summary entity.RunSummary, dropped []string) {
	if n := len(summary.FailedProjects); n > 0 {
		uc.console.LogWarning("%d projects could not be listed and were billed as empty: %v", n, summary.FailedProjects)
	}
	if n := len(summary.EmptyProjects); n > 0 {
		uc.console.LogInfo("%d projects have no files", n)
	}
	if len(dropped) > 0 {
		uc.console.LogInfo("%d projects only hold files owned by older projects and have no unique storage", len(dropped))
	}
	if summary.OrphanRecords > 0 {
		uc.console.LogWarning("%d listed files belong to unknown projects and were skipped", summary.OrphanRecords)
	}
	if summary.StateAnomalies > 0 {
		uc.console.LogWarning("%d files had a missing or unknown archival state and were billed as live", summary.StateAnomalies)
	}
}

func validateConfig(cfg *types.Config) error {
	if cfg == nil {
		return errors.New("no configuration provided")
	}
	if cfg.Organization == "" {
		return types.ErrMissingOrganization
	}
	if cfg.Workers < 1 {
		return types.ErrInvalidWorkers
	}
	return billing.ValidateRates(entity.StorageRates{LivePerGiBMonth: cfg.LiveRate, ArchivedPerGiBMonth: cfg.ArchivedRate})
}

func failedProjects(listings []entity.ProjectFiles) []string {
	var failed []string
	for _, l := range listings {
		if l.Err != nil {
			failed = append(failed, l.ProjectID)
		}
	}
	sort.Strings(failed)
	return failed
}

const dayLayout = "2006-01-02"

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(string, int, error, time.Duration) {}
func (nopMetrics) ObserveRun(entity.RunSummary)                   {}
func (nopMetrics) Flush() error                                   { return nil }
