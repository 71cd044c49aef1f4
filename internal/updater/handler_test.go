package updater

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns/memory"
)

// mockDNSProvider records DNS operations for test assertions.
type mockDNSProvider struct {
	mu              sync.Mutex
	current         *dns.Record
	lookupErr       error
	upsertErr       error
	lookups         int
	upsertedZones   []string
	upsertedRecords []dns.Record
}

func (m *mockDNSProvider) Lookup(_ context.Context, _, _, _ string) (*dns.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if m.current == nil {
		return nil, dns.ErrNotFound
	}
	rec := *m.current
	return &rec, nil
}

func (m *mockDNSProvider) Upsert(_ context.Context, zoneID string, record dns.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedZones = append(m.upsertedZones, zoneID)
	m.upsertedRecords = append(m.upsertedRecords, record)
	return nil
}

func (m *mockDNSProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups + len(m.upsertedRecords)
}

// staticStore serves a fixed configuration.
type staticStore struct {
	hosts   *config.HostConfigs
	err     error
	fetches int
}

func (s *staticStore) Fetch(context.Context) (*config.HostConfigs, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.hosts, nil
}

func testHosts() *config.HostConfigs {
	return config.NewHostConfigs(map[string]config.HostConfig{
		"host.example.com": {
			AWSRegion:    "us-west-2",
			ZoneID:       "Z1",
			RecordTTL:    300,
			RecordType:   "A",
			SharedSecret: "s3cr3t",
		},
	})
}

func newTestHandler(t *testing.T, store config.Store, provider dns.Provider) (*Handler, *[]string) {
	t.Helper()
	var regions []string
	return &Handler{
		Log:    testr.New(t),
		Config: store,
		Providers: func(region string) (dns.Provider, error) {
			regions = append(regions, region)
			return provider, nil
		},
	}, &regions
}

func baseRequest() Request {
	return Request{SourceIP: "1.2.3.4", GivenSecret: "s3cr3t", SetHostname: "host.example.com"}
}

func TestHandle_CreatesMissingRecord(t *testing.T) {
	mock := &mockDNSProvider{}
	h, regions := newTestHandler(t, &staticStore{hosts: testHosts()}, mock)

	res := h.Handle(context.Background(), baseRequest())

	if res.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.Contains(res.Message, "has been set to 1.2.3.4") {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if len(mock.upsertedRecords) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(mock.upsertedRecords))
	}
	rec := mock.upsertedRecords[0]
	if rec.Hostname != "host.example.com" || rec.Type != "A" || rec.TTL != 300 {
		t.Errorf("unexpected upserted record: %+v", rec)
	}
	if rec.Value() != "1.2.3.4" || len(rec.Values) != 1 {
		t.Errorf("expected single value '1.2.3.4', got %v", rec.Values)
	}
	if mock.upsertedZones[0] != "Z1" {
		t.Errorf("expected zone 'Z1', got %q", mock.upsertedZones[0])
	}
	if len(*regions) != 1 || (*regions)[0] != "us-west-2" {
		t.Errorf("expected provider for us-west-2, got %v", *regions)
	}
}

func TestHandle_AlreadySet(t *testing.T) {
	mock := &mockDNSProvider{current: &dns.Record{Hostname: "host.example.com", Type: "A", TTL: 300, Values: []string{"1.2.3.4"}}}
	h, _ := newTestHandler(t, &staticStore{hosts: testHosts()}, mock)

	res := h.Handle(context.Background(), baseRequest())

	if res.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", res)
	}
	if !strings.Contains(res.Message, "already set to 1.2.3.4") {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if len(mock.upsertedRecords) != 0 {
		t.Errorf("expected no upsert, got %d", len(mock.upsertedRecords))
	}
}

func TestHandle_ExplicitIP(t *testing.T) {
	mock := &mockDNSProvider{current: &dns.Record{Hostname: "host.example.com", Type: "A", Values: []string{"1.2.3.4"}}}
	h, _ := newTestHandler(t, &staticStore{hosts: testHosts()}, mock)

	req := baseRequest()
	req.SetIP = "5.6.7.8"
	res := h.Handle(context.Background(), req)

	if res.Status != StatusSuccess || !strings.Contains(res.Message, "has been set to 5.6.7.8") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(mock.upsertedRecords) != 1 || mock.upsertedRecords[0].Value() != "5.6.7.8" {
		t.Errorf("expected upsert of 5.6.7.8, got %+v", mock.upsertedRecords)
	}
}

func TestHandle_OnlyFirstValueCompared(t *testing.T) {
	tests := []struct {
		name       string
		values     []string
		wantUpsert bool
	}{
		{"first value matches", []string{"1.2.3.4", "9.9.9.9"}, false},
		{"second value matches", []string{"9.9.9.9", "1.2.3.4"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDNSProvider{current: &dns.Record{Hostname: "host.example.com", Type: "A", Values: tt.values}}
			h, _ := newTestHandler(t, &staticStore{hosts: testHosts()}, mock)

			res := h.Handle(context.Background(), baseRequest())
			if res.Status != StatusSuccess {
				t.Fatalf("expected success, got %+v", res)
			}
			if got := len(mock.upsertedRecords) == 1; got != tt.wantUpsert {
				t.Errorf("upsert issued: got %v, want %v", got, tt.wantUpsert)
			}
		})
	}
}

func TestHandle_MismatchedCurrentRecordIsUpdated(t *testing.T) {
	tests := []struct {
		name    string
		current dns.Record
	}{
		{"trailing dot", dns.Record{Hostname: "host.example.com.", Type: "A", Values: []string{"1.2.3.4"}}},
		{"other type", dns.Record{Hostname: "host.example.com", Type: "AAAA", Values: []string{"1.2.3.4"}}},
		{"no values", dns.Record{Hostname: "host.example.com", Type: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := tt.current
			mock := &mockDNSProvider{current: &current}
			h, _ := newTestHandler(t, &staticStore{hosts: testHosts()}, mock)

			res := h.Handle(context.Background(), baseRequest())
			if res.Status != StatusSuccess || !strings.Contains(res.Message, "has been set to") {
				t.Fatalf("unexpected result: %+v", res)
			}
			if len(mock.upsertedRecords) != 1 {
				t.Errorf("expected 1 upsert, got %d", len(mock.upsertedRecords))
			}
		})
	}
}

func TestHandle_Failures(t *testing.T) {
	tests := []struct {
		name        string
		store       *staticStore
		mock        *mockDNSProvider
		mutate      func(*Request)
		wantMessage string
		wantDNS     bool
	}{
		{
			name:        "config unavailable",
			store:       &staticStore{err: errors.New("NoSuchBucket")},
			mock:        &mockDNSProvider{},
			wantMessage: "There was an issue finding or reading the config file.",
		},
		{
			name:        "unknown host",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{},
			mutate:      func(r *Request) { r.SetHostname = "nope.example.com" },
			wantMessage: "The host nope.example.com does not exist in the config file.",
		},
		{
			name:        "wrong secret",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{},
			mutate:      func(r *Request) { r.GivenSecret = "wrong" },
			wantMessage: "Secret is not correct.",
		},
		{
			name:        "secret prefix",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{},
			mutate:      func(r *Request) { r.GivenSecret = "s3cr3" },
			wantMessage: "Secret is not correct.",
		},
		{
			name:        "empty secret",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{},
			mutate:      func(r *Request) { r.GivenSecret = "" },
			wantMessage: "Secret is not correct.",
		},
		{
			name: "invalid host entry",
			store: &staticStore{hosts: config.NewHostConfigs(map[string]config.HostConfig{
				"host.example.com": {AWSRegion: "us-west-2", ZoneID: "Z1", RecordType: "A", SharedSecret: "s3cr3t"},
			})},
			mock:        &mockDNSProvider{},
			wantMessage: "There was an issue finding or reading the config file.",
		},
		{
			name:        "query failed",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{lookupErr: errors.New("Throttling")},
			wantMessage: "There was an issue reading the current record for host.example.com.",
			wantDNS:     true,
		},
		{
			name:        "update rejected",
			store:       &staticStore{hosts: testHosts()},
			mock:        &mockDNSProvider{upsertErr: errors.New("InvalidChangeBatch")},
			wantMessage: "The DNS provider rejected the update for host.example.com.",
			wantDNS:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.store, tt.mock)
			req := baseRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			res := h.Handle(context.Background(), req)

			if res.Status != StatusFail {
				t.Fatalf("expected fail, got %+v", res)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, res.Message)
			}
			if !tt.wantDNS && tt.mock.calls() != 0 {
				t.Errorf("expected no DNS calls, got %d", tt.mock.calls())
			}
			if len(tt.mock.upsertedRecords) != 0 {
				t.Errorf("expected no applied upsert, got %d", len(tt.mock.upsertedRecords))
			}
		})
	}
}

func TestHandle_ProviderConstructionFails(t *testing.T) {
	h := &Handler{
		Log:    logr.Discard(),
		Config: &staticStore{hosts: testHosts()},
		Providers: func(string) (dns.Provider, error) {
			return nil, errors.New("no credentials")
		},
	}

	res := h.Handle(context.Background(), baseRequest())
	if res.Status != StatusFail || !strings.Contains(res.Message, "reading the current record") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHandle_FailureMessagesDoNotLeakDetail(t *testing.T) {
	store := &staticStore{err: errors.New("AccessDenied: arn:aws:s3:::secret-bucket")}
	h, _ := newTestHandler(t, store, &mockDNSProvider{})

	res := h.Handle(context.Background(), baseRequest())
	if strings.Contains(res.Message, "AccessDenied") || strings.Contains(res.Message, "secret-bucket") {
		t.Errorf("message leaks internal detail: %q", res.Message)
	}
}

func TestHandle_ConfigFetchedEveryInvocation(t *testing.T) {
	store := &staticStore{hosts: testHosts()}
	h, _ := newTestHandler(t, store, &mockDNSProvider{})

	h.Handle(context.Background(), baseRequest())
	h.Handle(context.Background(), baseRequest())

	if store.fetches != 2 {
		t.Errorf("expected 2 config fetches, got %d", store.fetches)
	}
}

func TestHandle_IdempotentWithMemoryProvider(t *testing.T) {
	zones := memory.NewZones()
	provider := memory.New(logr.Discard(), zones)
	h, _ := newTestHandler(t, &staticStore{hosts: testHosts()}, provider)

	first := h.Handle(context.Background(), baseRequest())
	if first.Status != StatusSuccess || !strings.Contains(first.Message, "has been set to 1.2.3.4") {
		t.Fatalf("unexpected first result: %+v", first)
	}

	rec, ok := zones.Get("Z1", "host.example.com", "A")
	if !ok || rec.Value() != "1.2.3.4" || rec.TTL != 300 {
		t.Fatalf("expected record to round-trip, got %+v (found=%v)", rec, ok)
	}

	second := h.Handle(context.Background(), baseRequest())
	if second.Status != StatusSuccess || !strings.Contains(second.Message, "already set to 1.2.3.4") {
		t.Fatalf("unexpected second result: %+v", second)
	}
	if zones.Upserts() != 1 {
		t.Errorf("expected exactly 1 upsert, got %d", zones.Upserts())
	}
}

func TestRequestNormalized(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		wantIP string
	}{
		{"empty set_ip defaults to source", Request{SourceIP: "1.2.3.4"}, "1.2.3.4"},
		{"explicit set_ip kept", Request{SourceIP: "1.2.3.4", SetIP: "5.6.7.8"}, "5.6.7.8"},
		{"both empty", Request{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.normalized().SetIP; got != tt.wantIP {
				t.Errorf("got %q, want %q", got, tt.wantIP)
			}
		})
	}
}
