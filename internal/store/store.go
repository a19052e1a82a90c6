package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"urlsentinel/pkg/models"
)

// ErrPersistence wraps every failure to write or read scan records.
var ErrPersistence = errors.New("persistence failure")

// Recorder appends scan records.
type Recorder interface {
	Record(ctx context.Context, rec models.ScanRecord) error
}

// Lister returns the most recent records, newest first.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]models.ScanRecord, error)
}

type Store interface {
	Recorder
	Lister
	Close() error
}

// NewRecord derives the persisted row from a completed scan.
func NewRecord(result *models.ScanResult) models.ScanRecord {
	return models.ScanRecord{
		ID:          uuid.NewString(),
		URL:         result.URL,
		Domain:      result.Domain,
		RiskScore:   result.RiskScore,
		TrustStatus: result.TrustStatus,
		URLType:     result.URLType,
		CreatedAt:   result.ScannedAt,
	}
}
