package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `{
  "source": {"dir": "/data/drop", "mode": "product", "batch_size": 10},
  "database": {"dsn": "postgres://localhost/catalogpix"},
  "r2": {
    "account_id": "acc",
    "bucket_name": "assets",
    "access_key_id": "key",
    "secret_key": "secret",
    "public_base_url": "https://assets.example.com"
  }
}`

func TestReadAppliesDefaults(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Read(writeConfig(t, `{
  "source": {"dir": "/data/drop"},
  "database": {"dsn": "postgres://localhost/catalogpix"},
  "r2": {
    "account_id": "acc",
    "bucket_name": "assets",
    "access_key_id": "key",
    "secret_key": "secret",
    "public_base_url": "https://assets.example.com"
  }
}`)); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if cfg.Source.Mode != ModeOccasion {
		t.Errorf("default mode = %q, want %q", cfg.Source.Mode, ModeOccasion)
	}
	if cfg.Source.BatchSize != DefaultBatchSize {
		t.Errorf("default batch size = %d, want %d", cfg.Source.BatchSize, DefaultBatchSize)
	}
	if cfg.Source.BatchDelay != DefaultBatchDelay {
		t.Errorf("default batch delay = %v, want %v", cfg.Source.BatchDelay, DefaultBatchDelay)
	}
}

func TestReadAndValidate(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Read(writeConfig(t, validConfig)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Source.Mode != ModeProduct || cfg.Source.BatchSize != 10 {
		t.Errorf("config not honored: %+v", cfg.Source)
	}
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Read(writeConfig(t, `{
  "source": {"dir": "/data/drop"},
  "database": {"dsn": "postgres://localhost/catalogpix"},
  "r2": {"account_id": "acc"}
}`)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted a config without bucket credentials")
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Read(writeConfig(t, validConfig)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	cfg.Source.Mode = "shuffle"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted an unknown ingestion mode")
	}
}

func TestReadMissingFile(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Read(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Read succeeded on a missing file")
	}
}
