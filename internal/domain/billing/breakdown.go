package billing

import (
	"sort"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// Breakdown reshapes completed cost rows into one record per project with
// the unique_live, unique_archived, total_live and total_archived buckets.
// Names are taken from projects when known.
func Breakdown(rows []entity.CostRow, projects []entity.Project) []entity.ProjectStorageCost {
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	byProject := make(map[string]*entity.ProjectStorageCost)
	for _, r := range rows {
		rec, ok := byProject[r.ProjectID]
		if !ok {
			rec = &entity.ProjectStorageCost{ProjectID: r.ProjectID, ProjectName: names[r.ProjectID]}
			byProject[r.ProjectID] = rec
		}
		if b := rec.Bucket(r.Scope, r.State); b != nil {
			b.Size += r.Size
			b.Cost += r.Cost
		}
	}

	out := make([]entity.ProjectStorageCost, 0, len(byProject))
	for _, rec := range byProject {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}
