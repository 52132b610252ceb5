package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/edge-calibrator/internal/config"
)

// SetupTestDB creates a test database connection and verifies it. Tests that
// need a live database are skipped unless EDGE_CALIBRATOR_TEST_DB is set.
func SetupTestDB(t *testing.T) *DB {
	if os.Getenv("EDGE_CALIBRATOR_TEST_DB") == "" {
		t.Skip("EDGE_CALIBRATOR_TEST_DB not set; skipping database test")
	}

	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer verifyCancel()

	if err := db.Ping(verifyCtx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
