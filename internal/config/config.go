package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	miekgdns "github.com/miekg/dns"
	"go.yaml.in/yaml/v3"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// ErrConfigUnavailable is returned when the host configuration document is
// missing, unreadable or malformed.
var ErrConfigUnavailable = errors.New("config unavailable")

// HostConfig holds the DNS settings and shared secret of one hostname.
type HostConfig struct {
	AWSRegion    string `json:"aws_region" yaml:"aws_region"`
	ZoneID       string `json:"route_53_zone_id" yaml:"route_53_zone_id"`
	RecordTTL    int64  `json:"route_53_record_ttl" yaml:"route_53_record_ttl"`
	RecordType   string `json:"route_53_record_type" yaml:"route_53_record_type"`
	SharedSecret string `json:"shared_secret" yaml:"shared_secret"`
}

// Validate checks that the entry for hostname can be used to update a record.
// All problems are reported together.
func (c HostConfig) Validate(hostname string) error {
	var errs []error
	if _, ok := miekgdns.IsDomainName(hostname); !ok || hostname == "" {
		errs = append(errs, fmt.Errorf("hostname %q is not a valid domain name", hostname))
	}
	if c.AWSRegion == "" {
		errs = append(errs, fmt.Errorf("missing aws_region"))
	}
	if c.ZoneID == "" {
		errs = append(errs, fmt.Errorf("missing route_53_zone_id"))
	}
	if c.RecordTTL <= 0 {
		errs = append(errs, fmt.Errorf("route_53_record_ttl must be positive, got %d", c.RecordTTL))
	}
	if _, ok := miekgdns.StringToType[c.RecordType]; !ok {
		errs = append(errs, fmt.Errorf("unknown route_53_record_type %q", c.RecordType))
	}
	if c.SharedSecret == "" {
		errs = append(errs, fmt.Errorf("missing shared_secret"))
	}
	return utilerrors.NewAggregate(errs)
}

// HostConfigs maps hostnames to their configuration.
type HostConfigs struct {
	entries map[string]HostConfig
}

// NewHostConfigs wraps entries. The map is not copied.
func NewHostConfigs(entries map[string]HostConfig) *HostConfigs {
	if entries == nil {
		entries = map[string]HostConfig{}
	}
	return &HostConfigs{entries: entries}
}

// Parse decodes a configuration document. name is the object key or file
// path the data came from: ".yaml" and ".yml" documents are decoded as YAML,
// everything else as JSON.
func Parse(data []byte, name string) (*HostConfigs, error) {
	entries := make(map[string]HostConfig)

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing yaml config %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing json config %s: %w", name, err)
		}
	}

	return NewHostConfigs(entries), nil
}

// Lookup returns the configuration for hostname. Keys are matched exactly.
func (c *HostConfigs) Lookup(hostname string) (HostConfig, bool) {
	hc, ok := c.entries[hostname]
	return hc, ok
}

// Hostnames returns all configured hostnames in sorted order.
func (c *HostConfigs) Hostnames() []string {
	return sets.List(sets.KeySet(c.entries))
}

// Len returns the number of configured hostnames.
func (c *HostConfigs) Len() int {
	return len(c.entries)
}
