package scanner

import (
	"math"

	"urlsentinel/internal/classifier"
	"urlsentinel/pkg/models"
)

// Score contributions. Positive values add risk, negative values are
// credits.
const (
	ClassifierCap        = 0.40
	VeryNewWeight        = 0.30
	ModeratelyNewWeight  = 0.15
	EstablishedWeight    = -0.30
	ARecordWeight        = -0.15
	MXRecordWeight       = -0.10
	NSRecordWeight       = -0.10
	ReachableWeight      = -0.10
	TrustListWeight      = -0.40
	NonExistentRiskScore = 1.0
)

// Score term names as they appear in the breakdown.
const (
	TermClassifier  = "classifier"
	TermAge         = "domain_age"
	TermARecord     = "dns_a"
	TermMXRecord    = "dns_mx"
	TermNSRecord    = "dns_ns"
	TermReachable   = "reachable"
	TermTrustList   = "trust_list"
	TermNonExistent = "non_existent"
)

// Signals are the inputs of one risk assessment. Prediction is nil when
// the classifier was skipped or failed.
type Signals struct {
	Trusted    bool
	Exists     bool
	Prediction *classifier.Prediction
	Age        DomainAge
	DNS        models.DNSSignal
	Reachable  bool
}

// Assessment is the aggregated outcome. Terms lists every contribution
// that was applied, in evaluation order.
type Assessment struct {
	Score   float64
	Level   models.RiskLevel
	Status  models.TrustStatus
	URLType models.URLType
	Terms   []models.ScoreTerm
}

// Assess folds the signals into a score. Trust-list membership wins over
// everything, then non-existence, then the weighted sum.
func Assess(s Signals) Assessment {
	switch {
	case s.Trusted:
		return finish(models.URLTypeBenign, []models.ScoreTerm{{Name: TermTrustList, Delta: TrustListWeight}})
	case !s.Exists:
		return finish(models.URLTypeNonExistent, []models.ScoreTerm{{Name: TermNonExistent, Delta: NonExistentRiskScore}})
	}

	urlType := models.URLTypeBenign
	var terms []models.ScoreTerm

	if s.Prediction != nil {
		urlType = s.Prediction.Label
		if s.Prediction.Malicious() {
			terms = append(terms, models.ScoreTerm{Name: TermClassifier, Delta: math.Min(ClassifierCap, s.Prediction.Confidence)})
		}
	}

	if delta, ok := ageWeight(s.Age); ok {
		terms = append(terms, models.ScoreTerm{Name: TermAge, Delta: delta})
	}

	if s.DNS.Has(models.RecordTypeA) {
		terms = append(terms, models.ScoreTerm{Name: TermARecord, Delta: ARecordWeight})
	}
	if s.DNS.Has(models.RecordTypeMX) {
		terms = append(terms, models.ScoreTerm{Name: TermMXRecord, Delta: MXRecordWeight})
	}
	if s.DNS.Has(models.RecordTypeNS) {
		terms = append(terms, models.ScoreTerm{Name: TermNSRecord, Delta: NSRecordWeight})
	}

	if s.Reachable {
		terms = append(terms, models.ScoreTerm{Name: TermReachable, Delta: ReachableWeight})
	}

	return finish(urlType, terms)
}

func ageWeight(age DomainAge) (float64, bool) {
	switch age.Bucket() {
	case AgeVeryNew:
		return VeryNewWeight, true
	case AgeModeratelyNew:
		return ModeratelyNewWeight, true
	case AgeEstablished:
		return EstablishedWeight, true
	default:
		return 0, false
	}
}

func finish(urlType models.URLType, terms []models.ScoreTerm) Assessment {
	var sum float64
	for _, t := range terms {
		sum += t.Delta
	}

	score := roundScore(math.Max(0, math.Min(1, sum)))

	return Assessment{
		Score:   score,
		Level:   models.RiskLevelFor(score),
		Status:  models.TrustStatusFor(score),
		URLType: urlType,
		Terms:   terms,
	}
}

// roundScore rounds to two decimals.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
