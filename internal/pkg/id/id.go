package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, which makes generated device ids safe DynamoDB
// partition keys that still group naturally in scans.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
