package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs are lexicographically sortable by
// generation time, which keeps journaled runs naturally ordered.
func New() string {
	return ulid.Make().String()
}
