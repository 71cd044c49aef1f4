// Package memory provides an in-process DNS provider. Changes are visible to
// the next Lookup immediately, with no propagation delay.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns"
)

// shared backs every provider created through the registry so that records
// survive across invocations within one process.
var shared = NewZones()

func init() {
	dns.Register("memory", func(log logr.Logger, _ map[string]string) (dns.Provider, error) {
		return New(log, shared), nil
	})
}

type recordKey struct {
	zone     string
	hostname string
	rrType   string
}

// Zones is a thread-safe store of record sets keyed by zone, name and type.
type Zones struct {
	mu      sync.Mutex
	records map[recordKey]dns.Record
	lookups int
	upserts int
}

// NewZones returns an empty store.
func NewZones() *Zones {
	return &Zones{records: map[recordKey]dns.Record{}}
}

// Seed stores record in zoneID as if it had been created out of band.
func (z *Zones) Seed(zoneID string, record dns.Record) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.records[recordKey{zoneID, record.Hostname, record.Type}] = copyRecord(record)
}

// Get returns the stored record set without counting a lookup.
func (z *Zones) Get(zoneID, hostname, recordType string) (dns.Record, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	rec, ok := z.records[recordKey{zoneID, hostname, recordType}]
	return copyRecord(rec), ok
}

// Lookups returns how many Lookup calls reached the store.
func (z *Zones) Lookups() int {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.lookups
}

// Upserts returns how many Upsert calls were applied.
func (z *Zones) Upserts() int {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.upserts
}

// Provider implements dns.Provider over a Zones store.
type Provider struct {
	zones *Zones
	log   logr.Logger
}

// New creates a provider backed by zones.
func New(log logr.Logger, zones *Zones) *Provider {
	return &Provider{zones: zones, log: log}
}

// Lookup returns the record set for hostname and recordType, or dns.ErrNotFound.
func (p *Provider) Lookup(_ context.Context, zoneID, hostname, recordType string) (*dns.Record, error) {
	p.zones.mu.Lock()
	defer p.zones.mu.Unlock()
	p.zones.lookups++

	rec, ok := p.zones.records[recordKey{zoneID, hostname, recordType}]
	if !ok {
		return nil, dns.ErrNotFound
	}
	out := copyRecord(rec)
	return &out, nil
}

// Upsert replaces the record set for record.Hostname and record.Type.
func (p *Provider) Upsert(_ context.Context, zoneID string, record dns.Record) error {
	if zoneID == "" {
		return fmt.Errorf("memory: empty zone id")
	}
	if len(record.Values) != 1 {
		return fmt.Errorf("memory: upsert of %s/%s needs exactly one value, got %d", record.Hostname, record.Type, len(record.Values))
	}
	p.log.Info("upserting record", "zone", zoneID, "hostname", record.Hostname, "type", record.Type, "value", record.Value())

	p.zones.mu.Lock()
	defer p.zones.mu.Unlock()
	p.zones.records[recordKey{zoneID, record.Hostname, record.Type}] = copyRecord(record)
	p.zones.upserts++
	return nil
}

func copyRecord(r dns.Record) dns.Record {
	r.Values = append([]string(nil), r.Values...)
	return r
}
