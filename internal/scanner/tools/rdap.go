package tools

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"urlsentinel/pkg/models"
)

// RDAPSource queries the registry's RDAP service found through the IANA
// bootstrap registry.
type RDAPSource struct {
	client *rdap.Client
}

// NewRDAPSource returns an RDAP source that gives up after timeout.
func NewRDAPSource(timeout time.Duration, userAgent string) *RDAPSource {
	return &RDAPSource{
		client: &rdap.Client{
			HTTP:      &http.Client{Timeout: timeout},
			UserAgent: userAgent,
		},
	}
}

func (s *RDAPSource) Name() string { return "rdap" }

func (s *RDAPSource) Lookup(ctx context.Context, domain string) (models.WhoisSignal, error) {
	req := rdap.NewDomainRequest(normalizeDomain(domain)).WithContext(ctx)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.WhoisSignal{}, fmt.Errorf("RDAP query failed: %w", err)
	}

	d, ok := resp.Object.(*rdap.Domain)
	if !ok {
		return models.WhoisSignal{}, fmt.Errorf("RDAP returned %T, expected domain", resp.Object)
	}

	return signalFromRDAP(d), nil
}

func signalFromRDAP(d *rdap.Domain) models.WhoisSignal {
	signal := models.WhoisSignal{Source: "rdap"}

	for _, e := range d.Events {
		switch strings.ToLower(e.Action) {
		case "registration":
			signal.CreationDate = instantPtr(e.Date)
		case "expiration":
			signal.ExpirationDate = instantPtr(e.Date)
		case "last changed":
			signal.UpdatedDate = instantPtr(e.Date)
		}
	}

	for _, ns := range d.Nameservers {
		if ns.LDHName != "" {
			signal.NameServers = append(signal.NameServers, strings.ToLower(ns.LDHName))
		}
	}

	for _, ent := range d.Entities {
		if ent.VCard == nil {
			continue
		}
		switch {
		case slices.Contains(ent.Roles, "registrar"):
			signal.Registrar = ent.VCard.Name()
		case slices.Contains(ent.Roles, "registrant"):
			signal.Owner = ent.VCard.Name()
		}
	}

	return signal
}
