package billing_test

import (
	"errors"
	"testing"

	"github.com/diillson/genomics-finops-go/internal/domain/billing"
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gib = int64(1) << 30

func sizePtr(n int64) *int64 { return &n }

func testProjects() []entity.Project {
	return []entity.Project{
		{ID: "project-A", Name: "A", CreatedEpoch: 1_000},
		{ID: "project-B", Name: "B", CreatedEpoch: 5_000},
		{ID: "project-C", Name: "C", CreatedEpoch: 9_000},
	}
}

func TestNormalize_FlattensAndAttachesCreation(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-B", Files: []entity.RawFile{
			{ID: "file-2", Size: sizePtr(20), ArchivalState: "live"},
			{ID: "file-1", Size: sizePtr(10), ArchivalState: "archived"},
		}},
		{ProjectID: "project-A", Files: []entity.RawFile{
			{ID: "file-1", Size: sizePtr(10), ArchivalState: "live"},
		}},
	}

	inv := billing.Normalize(testProjects(), listings)

	require.Len(t, inv.Records, 3)
	assert.Equal(t, entity.FileRecord{FileID: "file-1", ProjectID: "project-A", Size: 10, State: entity.StateLive, CreatedEpoch: 1_000}, inv.Records[0])
	assert.Equal(t, entity.FileRecord{FileID: "file-1", ProjectID: "project-B", Size: 10, State: entity.StateArchived, CreatedEpoch: 5_000}, inv.Records[1])
	assert.Equal(t, entity.FileRecord{FileID: "file-2", ProjectID: "project-B", Size: 20, State: entity.StateLive, CreatedEpoch: 5_000}, inv.Records[2])
	assert.Equal(t, []string{"project-C"}, inv.EmptyProjects)
	assert.Zero(t, inv.Orphans)
	assert.Zero(t, inv.StateAnomalies)
}

func TestNormalize_MissingSizeDefaultsToZero(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-A", Files: []entity.RawFile{
			{ID: "snapshot", ArchivalState: "live"},
			{ID: "negative", Size: sizePtr(-5), ArchivalState: "live"},
		}},
	}

	inv := billing.Normalize(testProjects(), listings)

	require.Len(t, inv.Records, 2)
	for _, r := range inv.Records {
		assert.Zero(t, r.Size, r.FileID)
	}
	assert.NotContains(t, inv.EmptyProjects, "project-A")
}

func TestNormalize_TransitionalStatesBilledAsTarget(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-A", Files: []entity.RawFile{
			{ID: "f-live", Size: sizePtr(1), ArchivalState: "live"},
			{ID: "f-archival", Size: sizePtr(1), ArchivalState: "archival"},
			{ID: "f-unarchiving", Size: sizePtr(1), ArchivalState: "unarchiving"},
			{ID: "f-archived", Size: sizePtr(1), ArchivalState: "ARCHIVED"},
			{ID: "f-missing", Size: sizePtr(1)},
		}},
	}

	inv := billing.Normalize(testProjects(), listings)

	states := map[string]entity.ArchivalState{}
	for _, r := range inv.Records {
		states[r.FileID] = r.State
	}
	assert.Equal(t, map[string]entity.ArchivalState{
		"f-live":        entity.StateLive,
		"f-archival":    entity.StateLive,
		"f-unarchiving": entity.StateArchived,
		"f-archived":    entity.StateArchived,
		"f-missing":     entity.StateLive,
	}, states)
	assert.Equal(t, 1, inv.StateAnomalies)
}

func TestNormalize_FailedAndEmptyListingsAreEmptyProjects(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-A", Err: errors.New("connection reset")},
		{ProjectID: "project-B"},
	}

	inv := billing.Normalize(testProjects(), listings)

	assert.Empty(t, inv.Records)
	assert.Equal(t, []string{"project-A", "project-B", "project-C"}, inv.EmptyProjects)
}

func TestNormalize_FilesOfUnknownProjectsAreOrphans(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-Z", Files: []entity.RawFile{{ID: "f", Size: sizePtr(3)}}},
	}

	inv := billing.Normalize(testProjects(), listings)

	assert.Empty(t, inv.Records)
	assert.Equal(t, 1, inv.Orphans)
}

func TestNormalize_RepeatedFileInSameProjectCollapsed(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-A", Files: []entity.RawFile{
			{ID: "f", Size: sizePtr(3), ArchivalState: "live"},
			{ID: "f", Size: sizePtr(3), ArchivalState: "live"},
		}},
	}

	inv := billing.Normalize(testProjects(), listings)

	assert.Len(t, inv.Records, 1)
}

func TestNormalize_IsPureAndOrderIndependent(t *testing.T) {
	listings := []entity.ProjectFiles{
		{ProjectID: "project-A", Files: []entity.RawFile{{ID: "x", Size: sizePtr(1), ArchivalState: "live"}}},
		{ProjectID: "project-B", Files: []entity.RawFile{{ID: "x", Size: sizePtr(1), ArchivalState: "archival"}}},
	}
	reversed := []entity.ProjectFiles{listings[1], listings[0]}

	first := billing.Normalize(testProjects(), listings)
	second := billing.Normalize(testProjects(), listings)
	third := billing.Normalize(testProjects(), reversed)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}
