package models

import "time"

// ScanResult is the verdict for one URL. It is built once per request and
// never modified afterwards.
type ScanResult struct {
	URL            string       `json:"url"`
	Domain         string       `json:"domain"`
	TrustStatus    TrustStatus  `json:"trust_status"`
	URLType        URLType      `json:"url_type"`
	RiskLevel      RiskLevel    `json:"risk_level"`
	RiskScore      float64      `json:"risk_score"`
	Reachable      bool         `json:"reachable"`
	Verdict        string       `json:"verdict"`
	WhoisSummary   string       `json:"whois_summary"`
	DNSSummary     string       `json:"dns_summary"`
	Confidence     *float64     `json:"confidence,omitempty"`
	DomainAgeDays  *int         `json:"domain_age_days,omitempty"`
	DNS            DNSSignal    `json:"dns"`
	Whois          *WhoisSignal `json:"whois,omitempty"`
	ScoreBreakdown []ScoreTerm  `json:"score_breakdown,omitempty"`
	ScannedAt      time.Time    `json:"scanned_at"`
}

// ErrorResult is returned instead of a ScanResult when the input is
// rejected before scanning. It is never persisted.
type ErrorResult struct {
	Error string `json:"error"`
}

// ScoreTerm is one additive contribution to a risk score.
type ScoreTerm struct {
	Name  string  `json:"name"`
	Delta float64 `json:"delta"`
}

// DNSRecord holds the detail of a single A, MX or NS answer. Only the
// fields relevant to the record type are set.
type DNSRecord struct {
	Address  string `json:"address,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Priority uint16 `json:"priority,omitempty"`
	Target   string `json:"target,omitempty"`
}

// DNSSignal maps a record type to its answers. A nil slice means the
// lookup failed or returned nothing, which is a normal outcome.
type DNSSignal map[RecordType][]DNSRecord

// Has reports whether at least one record of type t was found.
func (s DNSSignal) Has(t RecordType) bool {
	return len(s[t]) > 0
}

// Any reports whether any record type produced answers.
func (s DNSSignal) Any() bool {
	for _, t := range RecordTypes {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// WhoisSignal is the registration data of a domain. Error is set when
// neither the WHOIS nor the RDAP lookup produced data.
type WhoisSignal struct {
	Source         string     `json:"source,omitempty"`
	Registrar      string     `json:"registrar,omitempty"`
	Owner          string     `json:"owner,omitempty"`
	CreationDate   *time.Time `json:"creation_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	UpdatedDate    *time.Time `json:"updated_date,omitempty"`
	NameServers    []string   `json:"name_servers,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// Available reports whether the signal carries registration data.
func (w *WhoisSignal) Available() bool {
	return w != nil && w.Error == ""
}

// ScanRecord is the row appended to the scan store after a successful scan.
type ScanRecord struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Domain      string      `json:"domain"`
	RiskScore   float64     `json:"risk_score"`
	TrustStatus TrustStatus `json:"trust_status"`
	URLType     URLType     `json:"url_type"`
	CreatedAt   time.Time   `json:"created_at"`
}
