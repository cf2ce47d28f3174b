package repository

import (
	"context"
	"time"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// CostRepository persists per-project storage costs per run date.
type CostRepository interface {
	// SaveRun stores the projects, their costs for summary.RunDate and the run
	// log atomically. Saving the same date again replaces that date's costs.
	SaveRun(ctx context.Context, summary entity.RunSummary, projects []entity.Project, costs []entity.ProjectStorageCost) error

	// ProjectCosts returns the stored breakdown for one day.
	ProjectCosts(ctx context.Context, day time.Time) ([]entity.ProjectStorageCost, error)

	// DailyTotals returns organisation-wide totals per day in [from, to].
	DailyTotals(ctx context.Context, scope entity.Scope, from, to time.Time) ([]entity.DailyStorageCost, error)
}
