package validation

import (
	"slices"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// SelectError picks the error kind surfaced for an invalid control. The first
// active kind in iteration order becomes the candidate; while the candidate is
// listed in allowedOnSubmit, a later active kind replaces it. A disallowed
// kind therefore wins over allowed ones, and among consecutive allowed kinds
// the last one is reported. ok is false when no kind is active.
func SelectError(flags model.ErrorFlags, allowedOnSubmit []model.ErrorKind) (kind model.ErrorKind, ok bool) {
	keepGoing := true
	allowed := false
	for candidate, active := range flags.All() {
		if !active || (!keepGoing && !allowed) {
			continue
		}
		keepGoing = false
		kind = candidate
		ok = true
		allowed = slices.Contains(allowedOnSubmit, candidate)
	}
	return kind, ok
}
