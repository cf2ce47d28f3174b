package entity

import "time"

// Scope distinguishes the deduplicated view from the double-counted one.
type Scope string

const (
	ScopeUnique Scope = "unique"
	ScopeTotal  Scope = "total"
)

// Scopes lists both cost scopes in display order.
var Scopes = []Scope{ScopeUnique, ScopeTotal}

// CostRow is one (project, scope, state) cell of the cost summary.
type CostRow struct {
	ProjectID string        `json:"project_id"`
	Scope     Scope         `json:"scope"`
	State     ArchivalState `json:"state"`
	Size      int64         `json:"size"`
	Cost      float64       `json:"cost"`
}

// StorageRates are monthly prices per GiB for each billed state.
type StorageRates struct {
	LivePerGiBMonth     float64 `json:"live_per_gib_month"`
	ArchivedPerGiBMonth float64 `json:"archived_per_gib_month"`
}

// CostBucket holds the size in bytes and the cost for one scope/state pair.
type CostBucket struct {
	Size int64   `json:"size"`
	Cost float64 `json:"cost"`
}

// ProjectStorageCost is the per-project record handed to persistence and export.
type ProjectStorageCost struct {
	ProjectID      string     `json:"project_id"`
	ProjectName    string     `json:"project_name,omitempty"`
	UniqueLive     CostBucket `json:"unique_live"`
	UniqueArchived CostBucket `json:"unique_archived"`
	TotalLive      CostBucket `json:"total_live"`
	TotalArchived  CostBucket `json:"total_archived"`
}

// Bucket returns a pointer to the bucket for the given scope and state,
// or nil for an unknown combination.
func (p *ProjectStorageCost) Bucket(scope Scope, state ArchivalState) *CostBucket {
	switch {
	case scope == ScopeUnique && state == StateLive:
		return &p.UniqueLive
	case scope == ScopeUnique && state == StateArchived:
		return &p.UniqueArchived
	case scope == ScopeTotal && state == StateLive:
		return &p.TotalLive
	case scope == ScopeTotal && state == StateArchived:
		return &p.TotalArchived
	}
	return nil
}

// UniqueCost is the deduplicated daily cost of the project.
func (p ProjectStorageCost) UniqueCost() float64 {
	return p.UniqueLive.Cost + p.UniqueArchived.Cost
}

// TotalCost is the double-counted daily cost of the project.
func (p ProjectStorageCost) TotalCost() float64 {
	return p.TotalLive.Cost + p.TotalArchived.Cost
}

// StorageReport is the full output of one billing run, used by exporters.
type StorageReport struct {
	Summary  RunSummary           `json:"summary"`
	Projects []ProjectStorageCost `json:"projects"`
}

// DailyStorageCost is the persisted organisation-wide total for one run date.
type DailyStorageCost struct {
	Date time.Time `json:"date"`
	Size int64     `json:"size"`
	Cost float64   `json:"cost"`
}
