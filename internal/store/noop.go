package store

import (
	"context"

	"urlsentinel/pkg/models"
)

// NoOpStore discards every record.
type NoOpStore struct{}

func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

func (n *NoOpStore) Record(ctx context.Context, rec models.ScanRecord) error {
	return nil
}

func (n *NoOpStore) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	return []models.ScanRecord{}, nil
}

func (n *NoOpStore) Close() error {
	return nil
}
