package models

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint derives a numeric identity from free-text row content for
// sources that lack a natural primary key. It is a non-cryptographic hash:
// two different descriptions on the same day can collide, and nothing
// downstream detects that. The scheme is kept deliberately weak to match the
// identities already persisted by earlier ingestion runs.
func Fingerprint(text string) uint64 {
	return xxhash.Sum64String(text)
}

// SyntheticID builds a source-scoped identifier of the form
// <prefix>_<YYYYMMDD>_<fingerprint> for rows without a natural transaction ID.
func SyntheticID(prefix string, date time.Time, description string) string {
	return fmt.Sprintf("%s_%s_%d", prefix, date.Format("20060102"), Fingerprint(description))
}
