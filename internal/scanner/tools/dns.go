package tools

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"

	"urlsentinel/pkg/models"
)

// FallbackResolver is used when no resolver is configured and
// /etc/resolv.conf cannot be read.
const FallbackResolver = "8.8.8.8:53"

// DNSClient queries A, MX and NS records against a single resolver.
type DNSClient struct {
	client *dns.Client
	server string
}

// NewDNSClient returns a client for server (host:port). An empty server
// selects the system resolver.
func NewDNSClient(server string, timeout time.Duration) *DNSClient {
	if server == "" {
		server = SystemResolver()
	}
	return &DNSClient{
		client: &dns.Client{Timeout: timeout},
		server: server,
	}
}

// SystemResolver returns the first nameserver from /etc/resolv.conf.
func SystemResolver() string {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return FallbackResolver
	}
	return net.JoinHostPort(cfg.Servers[0], cfg.Port)
}

// Server returns the resolver address in use.
func (c *DNSClient) Server() string {
	return c.server
}

// Resolve returns the records of type t for domain in answer order (MX
// sorted by priority). An empty result with a nil error means the name
// exists but has no records of that type.
func (c *DNSClient) Resolve(ctx context.Context, domain string, t models.RecordType) ([]models.DNSRecord, error) {
	qtype, ok := map[models.RecordType]uint16{
		models.RecordTypeA:  dns.TypeA,
		models.RecordTypeMX: dns.TypeMX,
		models.RecordTypeNS: dns.TypeNS,
	}[t]
	if !ok {
		return nil, fmt.Errorf("unsupported record type %s", t)
	}

	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(normalizeDomain(domain)), qtype)
	msg.RecursionDesired = true

	resp, _, err := c.client.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", t, err)
	}

	if resp.Truncated {
		tcp := &dns.Client{Net: "tcp", Timeout: c.client.Timeout}
		resp, _, err = tcp.ExchangeContext(ctx, msg, c.server)
		if err != nil {
			return nil, fmt.Errorf("%s query over tcp failed: %w", t, err)
		}
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s query returned %s", t, dns.RcodeToString[resp.Rcode])
	}

	var records []models.DNSRecord
	for _, ans := range resp.Answer {
		switch rr := ans.(type) {
		case *dns.A:
			if t == models.RecordTypeA {
				records = append(records, models.DNSRecord{Address: rr.A.String()})
			}
		case *dns.MX:
			if t == models.RecordTypeMX {
				records = append(records, models.DNSRecord{
					Exchange: strings.TrimSuffix(rr.Mx, "."),
					Priority: rr.Preference,
				})
			}
		case *dns.NS:
			if t == models.RecordTypeNS {
				records = append(records, models.DNSRecord{Target: strings.TrimSuffix(rr.Ns, ".")})
			}
		}
	}

	if t == models.RecordTypeMX {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Priority < records[j].Priority
		})
	}

	return records, nil
}

// normalizeDomain lowercases a domain and removes a scheme, port or
// trailing dot if present.
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")

	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return strings.TrimSuffix(domain, ".")
}
