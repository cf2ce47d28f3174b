package billing

import (
	"sort"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// Inventory is the flat file table of one run.
type Inventory struct {
	// Records holds one row per (file, project) pair, sorted by project then file.
	Records []entity.FileRecord

	// EmptyProjects lists registry projects that contributed no records,
	// sorted by id. Projects whose fetch failed end up here as well.
	EmptyProjects []string

	// Orphans counts listed files whose project is not in the registry.
	// They cannot be dated and are left out of Records.
	Orphans int

	// StateAnomalies counts files with a missing or unknown archival state.
	StateAnomalies int
}

// Normalize flattens per-project listings into one table and attaches each
// project's creation time. It is a pure function of its inputs: the order of
// listings does not affect the result.
func Normalize(projects []entity.Project, listings []entity.ProjectFiles) Inventory {
	created := make(map[string]int64, len(projects))
	for _, p := range projects {
		created[p.ID] = p.CreatedEpoch
	}

	type pair struct{ file, project string }
	seen := make(map[pair]struct{})
	withFiles := make(map[string]struct{}, len(projects))

	var inv Inventory
	for _, listing := range listings {
		if listing.Err != nil {
			continue
		}
		epoch, known := created[listing.ProjectID]
		for _, f := range listing.Files {
			if !known {
				inv.Orphans++
				continue
			}
			key := pair{file: f.ID, project: listing.ProjectID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			state, ok := NormalizeState(f.ArchivalState)
			if !ok {
				inv.StateAnomalies++
			}

			var size int64
			if f.Size != nil && *f.Size > 0 {
				size = *f.Size
			}

			inv.Records = append(inv.Records, entity.FileRecord{
				FileID:       f.ID,
				ProjectID:    listing.ProjectID,
				Size:         size,
				State:        state,
				CreatedEpoch: epoch,
			})
			withFiles[listing.ProjectID] = struct{}{}
		}
	}

	sort.Slice(inv.Records, func(i, j int) bool {
		a, b := inv.Records[i], inv.Records[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.FileID < b.FileID
	})

	inv.EmptyProjects = EmptyProjects(projects, withFiles)
	return inv
}

// EmptyProjects returns the ids of registry projects missing from present.
func EmptyProjects(projects []entity.Project, present map[string]struct{}) []string {
	empty := make([]string, 0)
	listed := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if _, dup := listed[p.ID]; dup {
			continue
		}
		listed[p.ID] = struct{}{}
		if _, ok := present[p.ID]; !ok {
			empty = append(empty, p.ID)
		}
	}
	sort.Strings(empty)
	return empty
}
