package entity

import "time"

// Project represents a platform project as returned by the project listing.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreatedBy    string `json:"created_by"`
	CreatedEpoch int64  `json:"created_epoch"` // milliseconds since the Unix epoch
}

// CreatedAt returns the project creation instant in UTC.
func (p Project) CreatedAt() time.Time {
	return time.UnixMilli(p.CreatedEpoch).UTC()
}
