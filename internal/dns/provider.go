package dns

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Lookup when the zone holds no record set for the
// requested name and type.
var ErrNotFound = errors.New("dns: record not found")

// Record represents the record set of one name and type.
type Record struct {
	Hostname string   // FQDN, e.g. "host.example.com"
	Type     string   // "A", "AAAA", "CNAME"
	TTL      int64    // seconds
	Values   []string // in provider order
}

// Value returns the first value of the record set, or "" when it has none.
func (r Record) Value() string {
	if len(r.Values) == 0 {
		return ""
	}
	return r.Values[0]
}

// Provider is the interface that DNS providers must implement.
type Provider interface {
	// Lookup returns the current record set for hostname and recordType in
	// the given zone, or ErrNotFound.
	Lookup(ctx context.Context, zoneID, hostname, recordType string) (*Record, error)
	// Upsert creates or replaces the record set for record.Hostname and
	// record.Type with a single value.
	Upsert(ctx context.Context, zoneID string, record Record) error
}
