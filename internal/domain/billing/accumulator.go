package billing

import (
	"sort"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// Key identifies one aggregate cell.
type Key struct {
	ProjectID string
	State     entity.ArchivalState
}

// Accumulator sums byte sizes per (project, state). It is built per run and
// never shared between goroutines.
type Accumulator struct {
	sizes map[Key]int64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{sizes: make(map[Key]int64)}
}

// Add adds size bytes to the cell of projectID and state, creating it if needed.
func (a *Accumulator) Add(projectID string, state entity.ArchivalState, size int64) {
	a.sizes[Key{ProjectID: projectID, State: state}] += size
}

// Size returns the accumulated size of a cell and whether the cell exists.
func (a *Accumulator) Size(projectID string, state entity.ArchivalState) (int64, bool) {
	size, ok := a.sizes[Key{ProjectID: projectID, State: state}]
	return size, ok
}

// Len returns the number of cells.
func (a *Accumulator) Len() int {
	return len(a.sizes)
}

// Projects returns the sorted ids of projects with at least one cell.
func (a *Accumulator) Projects() []string {
	set := make(map[string]struct{})
	for k := range a.sizes {
		set[k.ProjectID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sum returns the total size over all cells.
func (a *Accumulator) Sum() int64 {
	var total int64
	for _, size := range a.sizes {
		total += size
	}
	return total
}

// Rows returns the cells as cost rows of the given scope, without cost,
// ordered by project and then state.
func (a *Accumulator) Rows(scope entity.Scope) []entity.CostRow {
	rows := make([]entity.CostRow, 0, len(a.sizes))
	for k, size := range a.sizes {
		rows = append(rows, entity.CostRow{
			ProjectID: k.ProjectID,
			Scope:     scope,
			State:     k.State,
			Size:      size,
		})
	}
	sortRows(rows)
	return rows
}

var scopeOrder = map[entity.Scope]int{entity.ScopeUnique: 0, entity.ScopeTotal: 1}
var stateOrder = map[entity.ArchivalState]int{entity.StateLive: 0, entity.StateArchived: 1}

func sortRows(rows []entity.CostRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		if a.Scope != b.Scope {
			return scopeOrder[a.Scope] < scopeOrder[b.Scope]
		}
		return stateOrder[a.State] < stateOrder[b.State]
	})
}
