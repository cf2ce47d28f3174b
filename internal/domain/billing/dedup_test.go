package billing_test

import (
	"testing"

	"github.com/diillson/genomics-finops-go/internal/domain/billing"
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeOf(t *testing.T, acc *billing.Accumulator, project string, state entity.ArchivalState) int64 {
	t.Helper()
	size, _ := acc.Size(project, state)
	return size
}

func TestDeduplicate_OldestProjectOwnsSharedFile(t *testing.T) {
	records := []entity.FileRecord{
		{FileID: "F", ProjectID: "B", Size: 10 * gib, State: entity.StateLive, CreatedEpoch: 5},
		{FileID: "F", ProjectID: "A", Size: 10 * gib, State: entity.StateLive, CreatedEpoch: 1},
	}

	agg := billing.Deduplicate(records)

	assert.Equal(t, 10*gib, sizeOf(t, agg.Unique, "A", entity.StateLive))
	assert.Equal(t, int64(0), sizeOf(t, agg.Unique, "B", entity.StateLive))
	assert.Equal(t, 10*gib, sizeOf(t, agg.Total, "A", entity.StateLive))
	assert.Equal(t, 10*gib, sizeOf(t, agg.Total, "B", entity.StateLive))
	assert.Equal(t, 1, agg.DistinctFiles)
	assert.Equal(t, []string{"B"}, agg.DroppedFromUnique)
}

func TestDeduplicate_FileSharedAcrossManyProjects(t *testing.T) {
	records := []entity.FileRecord{
		{FileID: "F", ProjectID: "P1", Size: 7, State: entity.StateArchived, CreatedEpoch: 30},
		{FileID: "F", ProjectID: "P2", Size: 7, State: entity.StateArchived, CreatedEpoch: 10},
		{FileID: "F", ProjectID: "P3", Size: 7, State: entity.StateArchived, CreatedEpoch: 20},
		{FileID: "G", ProjectID: "P3", Size: 2, State: entity.StateLive, CreatedEpoch: 20},
	}

	agg := billing.Deduplicate(records)

	assert.Equal(t, int64(9), agg.Unique.Sum())
	assert.Equal(t, int64(7), sizeOf(t, agg.Unique, "P2", entity.StateArchived))
	assert.Equal(t, int64(0), sizeOf(t, agg.Unique, "P1", entity.StateArchived))
	assert.Equal(t, int64(0), sizeOf(t, agg.Unique, "P3", entity.StateArchived))
	assert.Equal(t, int64(2), sizeOf(t, agg.Unique, "P3", entity.StateLive))
	assert.Equal(t, int64(23), agg.Total.Sum())
	assert.Equal(t, []string{"P1"}, agg.DroppedFromUnique)
}

func TestDeduplicate_EqualCreationTimesBreakTiesByProjectID(t *testing.T) {
	forward := []entity.FileRecord{
		{FileID: "F", ProjectID: "beta", Size: 4, State: entity.StateLive, CreatedEpoch: 100},
		{FileID: "F", ProjectID: "alpha", Size: 4, State: entity.StateLive, CreatedEpoch: 100},
	}
	backward := []entity.FileRecord{forward[1], forward[0]}

	for _, records := range [][]entity.FileRecord{forward, backward} {
		agg := billing.Deduplicate(records)
		assert.Equal(t, int64(4), sizeOf(t, agg.Unique, "alpha", entity.StateLive))
		_, ok := agg.Unique.Size("beta", entity.StateLive)
		assert.False(t, ok)
	}
}

func TestDeduplicate_TotalNeverBelowUnique(t *testing.T) {
	records := []entity.FileRecord{
		{FileID: "a", ProjectID: "P1", Size: 5, State: entity.StateLive, CreatedEpoch: 1},
		{FileID: "a", ProjectID: "P2", Size: 5, State: entity.StateLive, CreatedEpoch: 2},
		{FileID: "b", ProjectID: "P2", Size: 8, State: entity.StateArchived, CreatedEpoch: 2},
		{FileID: "c", ProjectID: "P3", Size: 1, State: entity.StateLive, CreatedEpoch: 3},
		{FileID: "b", ProjectID: "P3", Size: 8, State: entity.StateArchived, CreatedEpoch: 3},
	}

	agg := billing.Deduplicate(records)

	for _, p := range []string{"P1", "P2", "P3"} {
		for _, s := range entity.BilledStates {
			assert.GreaterOrEqual(t, sizeOf(t, agg.Total, p, s), sizeOf(t, agg.Unique, p, s), "%s/%s", p, s)
		}
	}
	// b is owned by the older P2, leaving P3 only its own file c.
	assert.Equal(t, int64(1), sizeOf(t, agg.Unique, "P3", entity.StateLive))
	assert.Equal(t, int64(0), sizeOf(t, agg.Unique, "P3", entity.StateArchived))
}

func TestDeduplicate_NoSharingMeansEqualViews(t *testing.T) {
	records := []entity.FileRecord{
		{FileID: "a", ProjectID: "P1", Size: 5, State: entity.StateLive, CreatedEpoch: 1},
		{FileID: "b", ProjectID: "P2", Size: 6, State: entity.StateArchived, CreatedEpoch: 2},
	}

	agg := billing.Deduplicate(records)

	assert.Equal(t, agg.Total.Rows(entity.ScopeUnique), agg.Unique.Rows(entity.ScopeUnique))
	assert.Empty(t, agg.DroppedFromUnique)
}

func TestDeduplicate_EmptyInventory(t *testing.T) {
	agg := billing.Deduplicate(nil)

	require.NotNil(t, agg.Unique)
	require.NotNil(t, agg.Total)
	assert.Zero(t, agg.Unique.Len())
	assert.Zero(t, agg.Total.Len())
	assert.Empty(t, agg.DroppedFromUnique)
}
