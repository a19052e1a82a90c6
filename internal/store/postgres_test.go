package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"urlsentinel/pkg/models"
)

// Set URLSENTINEL_TEST_DATABASE_URL to run against a real server.
func testDatabaseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("URLSENTINEL_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("URLSENTINEL_TEST_DATABASE_URL not set")
	}
	return url
}

func TestPostgresStore_RecordAndRecent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewPostgresStore(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer store.Close()

	rec := models.ScanRecord{
		ID:          uuid.NewString(),
		URL:         "https://example.com/",
		Domain:      "example.com",
		RiskScore:   0.45,
		TrustStatus: models.TrustStatusUntrusted,
		URLType:     models.URLTypePhishing,
		CreatedAt:   time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond),
	}

	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}

	recent, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != rec.ID {
		t.Fatalf("Expected the inserted record first, got %+v", recent)
	}
	if recent[0].URLType != models.URLTypePhishing || recent[0].RiskScore != 0.45 {
		t.Errorf("Unexpected record: %+v", recent[0])
	}

	// Migrations are idempotent.
	again, err := NewPostgresStore(ctx, testDatabaseURL(t))
	if err != nil {
		t.Fatalf("Failed to reconnect: %v", err)
	}
	again.Close()
}

func TestNewPostgresStore_InvalidURL(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewPostgresStore(ctx, "postgres://%zz")
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Expected ErrPersistence, got %v", err)
	}
}
