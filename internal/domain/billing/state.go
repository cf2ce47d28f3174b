// Package billing turns a multi-project file inventory into per-project
// storage costs. A file visible from several projects is billed once to the
// oldest of them in the unique view and once per project in the total view.
package billing

import (
	"strings"

	"github.com/diillson/genomics-finops-go/internal/domain/entity"
)

// NormalizeState maps a raw platform archival state onto the state it is
// billed as. Transitional states are billed as their target state:
// archival as live, unarchiving as archived. ok is false when the raw value
// was missing or unknown; such files are billed as live.
func NormalizeState(raw string) (state entity.ArchivalState, ok bool) {
	switch entity.ArchivalState(strings.ToLower(strings.TrimSpace(raw))) {
	case entity.StateLive, entity.StateArchival:
		return entity.StateLive, true
	case entity.StateArchived, entity.StateUnarchiving:
		return entity.StateArchived, true
	default:
		return entity.StateLive, false
	}
}
