package billing

import (
	"sort"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

type cell struct {
	project string
	scope   entity.Scope
	state   entity.ArchivalState
}

// Complete merges the unique and total cost rows into one table holding
// exactly one row per (project, scope, state) for every registry project.
//
// Projects seen in either aggregate are crossed with every scope/state
// label and the real rows are joined onto that product. Empty projects
// never reach the aggregates, so they are appended with all four labels at
// zero, as is any other registry project still missing. Rows for projects
// outside the registry are discarded.
func Complete(unique, total []entity.CostRow, registry []string, emptyProjects []string) []entity.CostRow {
	known := make(map[string]struct{}, len(registry))
	for _, id := range registry {
		known[id] = struct{}{}
	}

	values := make(map[cell]entity.CostRow, len(unique)+len(total))
	seen := make(map[string]struct{})
	for _, rows := range [][]entity.CostRow{unique, total} {
		for _, r := range rows {
			c := cell{project: r.ProjectID, scope: r.Scope, state: r.State}
			v := values[c]
			v.Size += r.Size
			v.Cost += r.Cost
			values[c] = v
			seen[r.ProjectID] = struct{}{}
		}
	}

	projects := make([]string, 0, len(known))
	added := make(map[string]struct{}, len(known))
	add := func(id string) {
		if _, ok := known[id]; !ok {
			return
		}
		if _, dup := added[id]; dup {
			return
		}
		added[id] = struct{}{}
		projects = append(projects, id)
	}
	for id := range seen {
		add(id)
	}
	for _, id := range emptyProjects {
		add(id)
	}
	for _, id := range registry {
		add(id)
	}
	sort.Strings(projects)

	out := make([]entity.CostRow, 0, len(projects)*len(entity.Scopes)*len(entity.BilledStates))
	for _, id := range projects {
		for _, scope := range entity.Scopes {
			for _, state := range entity.BilledStates {
				v := values[cell{project: id, scope: scope, state: state}]
				out = append(out, entity.CostRow{
					ProjectID: id,
					Scope:     scope,
					State:     state,
					Size:      v.Size,
					Cost:      v.Cost,
				})
			}
		}
	}
	return out
}
