package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

func day(d int) time.Time {
	return time.Date(2026, time.April, d, 0, 0, 0, 0, time.UTC)
}

func testRun(runID string, runDate time.Time) entity.RunSummary {
	return entity.RunSummary{
		RunID:         runID,
		RunDate:       runDate,
		DaysInMonth:   30,
		Rates:         entity.StorageRates{LivePerGiBMonth: 0.023, ArchivedPerGiBMonth: 0.0025},
		Projects:      2,
		FileRecords:   3,
		DistinctFiles: 2,
		EmptyProjects: []string{"project-B"},
		UniqueSize:    100,
		UniqueCost:    1,
		TotalSize:     150,
		TotalCost:     1.5,
	}
}

var testProjects = []entity.Project{
	{ID: "project-A", Name: "Exomes", CreatedBy: "user-ana", CreatedEpoch: 1_000},
	{ID: "project-B", Name: "Panels", CreatedBy: "user-bo", CreatedEpoch: 2_000},
}

func testCosts(scale int64) []entity.ProjectStorageCost {
	return []entity.ProjectStorageCost{
		{
			ProjectID:      "project-A",
			ProjectName:    "Exomes",
			UniqueLive:     entity.CostBucket{Size: 10 * scale, Cost: 0.1 * float64(scale)},
			UniqueArchived: entity.CostBucket{Size: 5 * scale, Cost: 0.01 * float64(scale)},
			TotalLive:      entity.CostBucket{Size: 10 * scale, Cost: 0.1 * float64(scale)},
			TotalArchived:  entity.CostBucket{Size: 5 * scale, Cost: 0.01 * float64(scale)},
		},
		{
			ProjectID:   "project-B",
			ProjectName: "Panels",
			TotalLive:   entity.CostBucket{Size: 10 * scale, Cost: 0.1 * float64(scale)},
		},
	}
}

func TestCostRepository_SaveAndLoad(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(10)), testProjects, testCosts(1)))

	got, err := repo.ProjectCosts(ctx, day(10).Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, testCosts(1), got)

	var createdBy string
	require.NoError(t, db.QueryRow(`SELECT created_by FROM projects WHERE id = 'project-A'`).Scan(&createdBy))
	assert.Equal(t, "user-ana", createdBy)

	var runs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestCostRepository_SameDayReplacesCosts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(10)), testProjects, testCosts(1)))

	// project-B left the organisation before the rerun.
	rerun := testCosts(2)[:1]
	require.NoError(t, repo.SaveRun(ctx, testRun("run-2", day(10)), testProjects[:1], rerun))

	got, err := repo.ProjectCosts(ctx, day(10))
	require.NoError(t, err)
	assert.Equal(t, rerun, got)

	var dates, runs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dates`).Scan(&dates))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, dates)
	assert.Equal(t, 2, runs)
}

func TestCostRepository_KeepsKnownProjectDetails(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(10)), testProjects, testCosts(1)))
	require.NoError(t, repo.SaveRun(ctx, testRun("run-2", day(11)), []entity.Project{{ID: "project-A"}}, testCosts(1)[:1]))

	var name string
	var epoch int64
	require.NoError(t, db.QueryRow(`SELECT name, created_epoch FROM projects WHERE id = 'project-A'`).Scan(&name, &epoch))
	assert.Equal(t, "Exomes", name)
	assert.Equal(t, int64(1_000), epoch)
}

func TestCostRepository_ProjectIsNotRewrittenOnLaterRuns(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(10)), testProjects, testCosts(1)))

	renamed := []entity.Project{{ID: "project-A", Name: "Exomes v2", CreatedBy: "user-zed", CreatedEpoch: 9_000}}
	require.NoError(t, repo.SaveRun(ctx, testRun("run-2", day(11)), renamed, testCosts(1)[:1]))

	var name, createdBy string
	var epoch int64
	require.NoError(t, db.QueryRow(`SELECT name, created_by, created_epoch FROM projects WHERE id = 'project-A'`).Scan(&name, &createdBy, &epoch))
	assert.Equal(t, "Exomes", name)
	assert.Equal(t, "user-ana", createdBy)
	assert.Equal(t, int64(1_000), epoch)
}

func TestCostRepository_DuplicateRunIDRollsBack(t *testing.T) {
	db := NewTestDB(t)
	repo := NewCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(10)), testProjects, testCosts(1)))
	err := repo.SaveRun(ctx, testRun("run-1", day(11)), testProjects, testCosts(3))
	require.Error(t, err)

	_, err = repo.ProjectCosts(ctx, day(11))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCostRepository_ProjectCostsNotFound(t *testing.T) {
	repo := NewCostRepository(NewTestDB(t))

	_, err := repo.ProjectCosts(context.Background(), day(1))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCostRepository_DailyTotals(t *testing.T) {
	repo := NewCostRepository(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, testRun("run-1", day(8)), testProjects, testCosts(1)))
	require.NoError(t, repo.SaveRun(ctx, testRun("run-2", day(9)), testProjects, testCosts(2)))
	require.NoError(t, repo.SaveRun(ctx, testRun("run-3", day(12)), testProjects, testCosts(4)))

	unique, err := repo.DailyTotals(ctx, entity.ScopeUnique, day(9), day(12))
	require.NoError(t, err)
	require.Len(t, unique, 2)
	assert.Equal(t, day(9), unique[0].Date)
	assert.Equal(t, int64(30), unique[0].Size)
	assert.InDelta(t, 0.22, unique[0].Cost, 1e-9)
	assert.Equal(t, day(12), unique[1].Date)
	assert.Equal(t, int64(60), unique[1].Size)

	total, err := repo.DailyTotals(ctx, entity.ScopeTotal, day(1), day(30))
	require.NoError(t, err)
	require.Len(t, total, 3)
	assert.Equal(t, int64(25), total[0].Size)
	assert.InDelta(t, 0.21, total[0].Cost, 1e-9)

	_, err = repo.DailyTotals(ctx, entity.Scope("bogus"), day(1), day(30))
	require.Error(t, err)
}
