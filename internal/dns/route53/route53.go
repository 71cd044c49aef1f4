package route53

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns"
)

// lookupMaxItems is the page size of the start-from query. Only the first
// returned record set is ever inspected.
const lookupMaxItems = 2

func init() {
	dns.Register("route53", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// API is the subset of the Route 53 client used by Provider.
type API interface {
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
}

// Provider implements dns.Provider for AWS Route 53 hosted zones.
type Provider struct {
	api API
	log logr.Logger
}

// New creates a Route 53 provider from the given settings map.
// Required settings: region. Credentials come from the default AWS chain.
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	region := settings["region"]
	if region == "" {
		return nil, fmt.Errorf("route53: missing required setting 'region'")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("route53: load aws config: %w", err)
	}

	return NewWithAPI(log, route53.NewFromConfig(cfg)), nil
}

// NewWithAPI creates a provider on top of an existing Route 53 client.
func NewWithAPI(log logr.Logger, api API) *Provider {
	return &Provider{api: api, log: log}
}

// Lookup lists record sets starting at hostname/recordType and returns the
// first one. Route 53 returns the next record in lexical order when the
// requested one is absent, so a first set whose name or type differs is
// reported as dns.ErrNotFound.
func (p *Provider) Lookup(ctx context.Context, zoneID, hostname, recordType string) (*dns.Record, error) {
	p.log.V(1).Info("listing record sets", "zone", zoneID, "hostname", hostname, "type", recordType)

	out, err := p.api.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(zoneID),
		StartRecordName: aws.String(hostname),
		StartRecordType: types.RRType(recordType),
		MaxItems:        aws.Int32(lookupMaxItems),
	})
	if err != nil {
		return nil, fmt.Errorf("route53: list record sets in zone %s: %w", zoneID, err)
	}
	if len(out.ResourceRecordSets) == 0 {
		return nil, dns.ErrNotFound
	}

	rec := toRecord(out.ResourceRecordSets[0])
	if !dns.Matches(rec, hostname, recordType) {
		p.log.V(1).Info("first record set is for another name or type", "name", rec.Hostname, "type", rec.Type)
		return nil, dns.ErrNotFound
	}
	return rec, nil
}

// Upsert issues a single UPSERT change for record. It does not wait for the
// change to reach INSYNC.
func (p *Provider) Upsert(ctx context.Context, zoneID string, record dns.Record) error {
	if len(record.Values) != 1 {
		return fmt.Errorf("route53: upsert of %s/%s needs exactly one value, got %d", record.Hostname, record.Type, len(record.Values))
	}
	p.log.Info("upserting record", "zone", zoneID, "hostname", record.Hostname, "type", record.Type, "value", record.Value(), "ttl", record.TTL)

	out, err := p.api.ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &types.ChangeBatch{
			Changes: []types.Change{{
				Action: types.ChangeActionUpsert,
				ResourceRecordSet: &types.ResourceRecordSet{
					Name: aws.String(record.Hostname),
					Type: types.RRType(record.Type),
					TTL:  aws.Int64(record.TTL),
					ResourceRecords: []types.ResourceRecord{
						{Value: aws.String(record.Value())},
					},
				},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("route53: change record sets in zone %s: %w", zoneID, err)
	}

	if out.ChangeInfo != nil {
		p.log.V(1).Info("change submitted", "id", aws.ToString(out.ChangeInfo.Id), "status", string(out.ChangeInfo.Status))
	}
	return nil
}

func toRecord(set types.ResourceRecordSet) *dns.Record {
	rec := &dns.Record{
		Hostname: aws.ToString(set.Name),
		Type:     string(set.Type),
		TTL:      aws.ToInt64(set.TTL),
	}
	for _, rr := range set.ResourceRecords {
		rec.Values = append(rec.Values, aws.ToString(rr.Value))
	}
	return rec
}
