package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

// RunTrendAnalysis exibe a tendência de custo diário dos últimos dias
// a partir dos resumos persistidos.
func (uc *BillingUseCase) RunTrendAnalysis(ctx context.Context, days int, scope entity.Scope) ([]types.TrendPoint, error) {
	if scope != entity.ScopeUnique && scope != entity.ScopeTotal {
		return nil, fmt.Errorf("%w: got %q", types.ErrInvalidScope, scope)
	}
	if days < 1 {
		days = 30
	}

	to := truncateDay(uc.now())
	from := to.AddDate(0, 0, -(days - 1))

	totals, err := uc.costRepo.DailyTotals(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("error loading daily totals: %w", err)
	}
	if len(totals) == 0 {
		uc.console.LogWarning("No storage costs stored between %s and %s", from.Format(dayLayout), to.Format(dayLayout))
		return nil, nil
	}

	points := make([]types.TrendPoint, 0, len(totals))
	for _, t := range totals {
		points = append(points, types.TrendPoint{Label: t.Date.Format(dayLayout), Cost: t.Cost})
	}

	uc.console.DisplayTrendBars(fmt.Sprintf("Daily Storage Cost Trend (%s)", scope), points)
	return points, nil
}
