package billing

import (
	"sort"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// Aggregates holds both views of one inventory.
type Aggregates struct {
	// Unique bills each file once, to its owning project.
	Unique *Accumulator
	// Total bills each file once per project it is visible from.
	Total *Accumulator

	DistinctFiles int

	// DroppedFromUnique lists projects that have files but own none of them:
	// every one of their files is a duplicate of a file in an older project.
	DroppedFromUnique []string
}

// owns reports whether record a takes ownership of a file over record b.
// The oldest project wins; equal creation times fall back to the
// lexicographically smallest project id so the result never depends on
// fetch order.
func owns(a, b entity.FileRecord) bool {
	if a.CreatedEpoch != b.CreatedEpoch {
		return a.CreatedEpoch < b.CreatedEpoch
	}
	return a.ProjectID < b.ProjectID
}

// Deduplicate builds the unique and total aggregates. An empty inventory
// yields two empty accumulators.
func Deduplicate(records []entity.FileRecord) Aggregates {
	total := NewAccumulator()
	owner := make(map[string]int, len(records))

	for i, r := range records {
		total.Add(r.ProjectID, r.State, r.Size)

		cur, seen := owner[r.FileID]
		if !seen || owns(r, records[cur]) {
			owner[r.FileID] = i
		}
	}

	unique := NewAccumulator()
	for _, i := range owner {
		r := records[i]
		unique.Add(r.ProjectID, r.State, r.Size)
	}

	owning := make(map[string]struct{})
	for _, id := range unique.Projects() {
		owning[id] = struct{}{}
	}
	dropped := make([]string, 0)
	for _, id := range total.Projects() {
		if _, ok := owning[id]; !ok {
			dropped = append(dropped, id)
		}
	}
	sort.Strings(dropped)

	return Aggregates{
		Unique:            unique,
		Total:             total,
		DistinctFiles:     len(owner),
		DroppedFromUnique: dropped,
	}
}
