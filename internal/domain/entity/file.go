package entity

// ArchivalState is the storage state of a file as billed.
type ArchivalState string

const (
	StateLive        ArchivalState = "live"
	StateArchival    ArchivalState = "archival"
	StateUnarchiving ArchivalState = "unarchiving"
	StateArchived    ArchivalState = "archived"
)

// BilledStates lists the states that appear in cost summaries, in display order.
var BilledStates = []ArchivalState{StateLive, StateArchived}

// RawFile is a file as described by the platform listing. Size is nil when
// the platform omits it (zero-byte and snapshot placeholder objects).
type RawFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Size          *int64 `json:"size,omitempty"`
	ArchivalState string `json:"archivalState"`
}

// ProjectFiles is the outcome of fetching one project's file listing.
// Err is set when the fetch failed; Files is then empty.
type ProjectFiles struct {
	ProjectID string
	Files     []RawFile
	Err       error
}

// FileRecord is one row of the flat inventory: a file as seen from one
// project, with that project's creation time attached. FileID is not unique
// across records because a file can be visible from several projects.
type FileRecord struct {
	FileID       string
	ProjectID    string
	Size         int64
	State        ArchivalState
	CreatedEpoch int64
}
