package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository/mocks"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
)

func TestRunTrendAnalysis(t *testing.T) {
	from := time.Date(2026, time.April, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	costs := &mocks.CostRepository{}
	costs.On("DailyTotals", mock.Anything, entity.ScopeUnique, from, to).Return([]entity.DailyStorageCost{
		{Date: from, Size: gib, Cost: 0.5},
		{Date: to, Size: 2 * gib, Cost: 1.25},
	}, nil)

	uc, console := newTestUseCase(&mocks.PlatformRepository{}, costs, &mocks.ExportRepository{})

	points, err := uc.RunTrendAnalysis(context.Background(), 7, entity.ScopeUnique)
	require.NoError(t, err)

	want := []types.TrendPoint{{Label: "2026-04-04", Cost: 0.5}, {Label: "2026-04-10", Cost: 1.25}}
	assert.Equal(t, want, points)
	assert.Equal(t, want, console.trend)
}

func TestRunTrendAnalysis_NoData(t *testing.T) {
	costs := &mocks.CostRepository{}
	costs.On("DailyTotals", mock.Anything, entity.ScopeTotal, mock.Anything, mock.Anything).Return(nil, nil)

	uc, console := newTestUseCase(&mocks.PlatformRepository{}, costs, &mocks.ExportRepository{})

	points, err := uc.RunTrendAnalysis(context.Background(), 0, entity.ScopeTotal)
	require.NoError(t, err)
	assert.Nil(t, points)
	require.Len(t, console.warnings, 1)
	assert.Contains(t, console.warnings[0], "2026-03-12")
}

func TestRunTrendAnalysis_InvalidScope(t *testing.T) {
	uc, _ := newTestUseCase(&mocks.PlatformRepository{}, &mocks.CostRepository{}, &mocks.ExportRepository{})

	_, err := uc.RunTrendAnalysis(context.Background(), 7, entity.Scope("shared"))
	require.ErrorIs(t, err, types.ErrInvalidScope)
}

func TestRunScheduled_InvalidSpec(t *testing.T) {
	uc, _ := newTestUseCase(&mocks.PlatformRepository{}, &mocks.CostRepository{}, &mocks.ExportRepository{})

	err := uc.RunScheduled(context.Background(), "every tuesday", testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestRunScheduled_StopsWhenContextEnds(t *testing.T) {
	uc, console := newTestUseCase(&mocks.PlatformRepository{}, &mocks.CostRepository{}, &mocks.ExportRepository{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.RunScheduled(ctx, "0 2 * * *", testConfig()) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	console.mu.Lock()
	defer console.mu.Unlock()
	assert.Contains(t, console.infos, "Scheduler stopped")
}
