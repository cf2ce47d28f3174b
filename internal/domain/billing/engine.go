package billing

import (
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// Input is everything one billing computation needs.
type Input struct {
	Projects    []entity.Project
	Listings    []entity.ProjectFiles
	Rates       entity.StorageRates
	DaysInMonth int
}

// Result is the outcome of Compute.
type Result struct {
	// Rows is the completed table: four rows per registry project.
	Rows []entity.CostRow
	// Costs is Rows reshaped per project.
	Costs []entity.ProjectStorageCost

	FileRecords       int
	DistinctFiles     int
	Orphans           int
	StateAnomalies    int
	EmptyProjects     []string
	DroppedFromUnique []string
}

// Compute runs normalization, deduplication, costing and gap filling.
// An empty inventory is not an error: every project then gets zero rows.
func Compute(in Input) (Result, error) {
	calc, err := NewCalculator(in.Rates, in.DaysInMonth)
	if err != nil {
		return Result{}, err
	}

	inv := Normalize(in.Projects, in.Listings)
	agg := Deduplicate(inv.Records)

	unique := calc.Apply(agg.Unique.Rows(entity.ScopeUnique))
	total := calc.Apply(agg.Total.Rows(entity.ScopeTotal))

	registry := make([]string, len(in.Projects))
	for i, p := range in.Projects {
		registry[i] = p.ID
	}

	rows := Complete(unique, total, registry, inv.EmptyProjects)

	return Result{
		Rows:              rows,
		Costs:             Breakdown(rows, in.Projects),
		FileRecords:       len(inv.Records),
		DistinctFiles:     agg.DistinctFiles,
		Orphans:           inv.Orphans,
		StateAnomalies:    inv.StateAnomalies,
		EmptyProjects:     inv.EmptyProjects,
		DroppedFromUnique: agg.DroppedFromUnique,
	}, nil
}

// Totals sums size and cost of rows per scope.
func Totals(rows []entity.CostRow) map[entity.Scope]entity.CostBucket {
	out := make(map[entity.Scope]entity.CostBucket, len(entity.Scopes))
	for _, scope := range entity.Scopes {
		out[scope] = entity.CostBucket{}
	}
	for _, r := range rows {
		b := out[r.Scope]
		b.Size += r.Size
		b.Cost += r.Cost
		out[r.Scope] = b
	}
	return out
}
