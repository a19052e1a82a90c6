package models

// TrustStatus is the binary trust outcome of a scan.
type TrustStatus string

const (
	TrustStatusTrusted   TrustStatus = "Trusted"
	TrustStatusUntrusted TrustStatus = "Untrusted"
)

// RiskLevel is the coarse bucketing of a risk score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// URLType is the content-type label of a scanned URL.
type URLType string

const (
	URLTypeBenign      URLType = "benign"
	URLTypePhishing    URLType = "phishing"
	URLTypeDefacement  URLType = "defacement"
	URLTypeMalware     URLType = "malware"
	URLTypeNonExistent URLType = "non-existent"
)

// RecordType is a DNS record type probed during a scan.
type RecordType string

const (
	RecordTypeA  RecordType = "A"
	RecordTypeMX RecordType = "MX"
	RecordTypeNS RecordType = "NS"
)

// RecordTypes lists the probed record types in display order.
var RecordTypes = []RecordType{RecordTypeA, RecordTypeMX, RecordTypeNS}

// Risk tier thresholds, applied to the rounded score.
const (
	HighRiskThreshold   = 0.70
	MediumRiskThreshold = 0.40
)

// RiskLevelFor maps a score to its tier.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// TrustStatusFor derives the trust status from a score alone, so a
// domain outside the trust list can still be reported as Trusted.
func TrustStatusFor(score float64) TrustStatus {
	if score < MediumRiskThreshold {
		return TrustStatusTrusted
	}
	return TrustStatusUntrusted
}
