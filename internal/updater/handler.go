// Package updater implements the dynamic DNS update flow: load the host
// configuration, authenticate the caller, and upsert the record when it does
// not already hold the requested value.
package updater

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/dns"
	"github.com/yuriy-kovalchuk/yk-ddns-lambda/internal/secret"
)

// ProviderFunc creates the DNS provider used for a host in the given region.
type ProviderFunc func(region string) (dns.Provider, error)

// RegistryProviders returns a ProviderFunc that builds the named registered provider.
func RegistryProviders(name string, log logr.Logger) ProviderFunc {
	return func(region string) (dns.Provider, error) {
		return dns.NewProvider(name, log.WithName("dns-"+name), map[string]string{"region": region})
	}
}

// Handler processes update requests. It holds no per-invocation state and is
// safe for concurrent use if its Config and Providers are.
type Handler struct {
	Log       logr.Logger
	Config    config.Store
	Providers ProviderFunc
}

// Handle runs one update. Every failure is reported as a fail Result; Handle
// never returns an error to the caller.
func (h *Handler) Handle(ctx context.Context, req Request) Result {
	req = req.normalized()
	log := h.Log.WithValues("hostname", req.SetHostname, "ip", req.SetIP, "source", req.SourceIP)

	changed, err := h.apply(ctx, log, req)
	if err != nil {
		if errors.Is(err, ErrUnknownHost) || errors.Is(err, ErrAuthenticationFailed) {
			log.Info("update refused", "reason", err.Error())
		} else {
			log.Error(err, "update failed")
		}
		return Result{Status: StatusFail, Message: failMessage(err, req.SetHostname)}
	}

	if !changed {
		log.Info("record already current")
		return Result{
			Status:  StatusSuccess,
			Message: fmt.Sprintf("Your hostname record %s is already set to %s", req.SetHostname, req.SetIP),
		}
	}

	log.Info("record updated")
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Your hostname record %s has been set to %s", req.SetHostname, req.SetIP),
	}
}

// apply reports whether a change was submitted. No write happens unless
// every earlier step succeeded.
func (h *Handler) apply(ctx context.Context, log logr.Logger, req Request) (bool, error) {
	hosts, err := h.Config.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, config.ErrConfigUnavailable) {
			err = fmt.Errorf("%w: %w", config.ErrConfigUnavailable, err)
		}
		return false, err
	}
	log.V(1).Info("loaded config", "hosts", hosts.Hostnames())

	hc, ok := hosts.Lookup(req.SetHostname)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownHost, req.SetHostname)
	}
	if err := hc.Validate(req.SetHostname); err != nil {
		return false, fmt.Errorf("%w: entry for %s: %w", config.ErrConfigUnavailable, req.SetHostname, err)
	}

	if !secret.Verify(req.GivenSecret, hc.SharedSecret) {
		return false, ErrAuthenticationFailed
	}

	provider, err := h.Providers(hc.AWSRegion)
	if err != nil {
		return false, fmt.Errorf("%w: creating provider for %s: %w", ErrQueryFailed, hc.AWSRegion, err)
	}

	current, err := provider.Lookup(ctx, hc.ZoneID, req.SetHostname, hc.RecordType)
	switch {
	case errors.Is(err, dns.ErrNotFound):
		log.V(1).Info("no current record")
		current = nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	default:
		log.V(1).Info("current record", "values", current.Values)
	}

	if dns.IsCurrent(current, req.SetHostname, hc.RecordType, req.SetIP) {
		return false, nil
	}

	record := dns.Record{
		Hostname: req.SetHostname,
		Type:     hc.RecordType,
		TTL:      hc.RecordTTL,
		Values:   []string{req.SetIP},
	}
	if err := provider.Upsert(ctx, hc.ZoneID, record); err != nil {
		return false, fmt.Errorf("%w: %w", ErrUpdateRejected, err)
	}
	return true, nil
}

// failMessage maps an error to the text returned to the caller. Internal
// detail never leaves this package.
func failMessage(err error, hostname string) string {
	switch {
	case errors.Is(err, config.ErrConfigUnavailable):
		return "There was an issue finding or reading the config file."
	case errors.Is(err, ErrUnknownHost):
		return fmt.Sprintf("The host %s does not exist in the config file.", hostname)
	case errors.Is(err, ErrAuthenticationFailed):
		return "Secret is not correct."
	case errors.Is(err, ErrQueryFailed):
		return fmt.Sprintf("There was an issue reading the current record for %s.", hostname)
	case errors.Is(err, ErrUpdateRejected):
		return fmt.Sprintf("The DNS provider rejected the update for %s.", hostname)
	default:
		return "The update could not be completed."
	}
}
