package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testBackends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	boltBackend, err := NewBolt(filepath.Join(dir, "state.bolt"), testLogger())
	if err != nil {
		t.Fatalf("Failed to open bolt backend: %v", err)
	}
	t.Cleanup(func() { boltBackend.Close() })

	sqliteBackend, err := NewSQLite(filepath.Join(dir, "state.db"), testLogger())
	if err != nil {
		t.Fatalf("Failed to open sqlite backend: %v", err)
	}
	t.Cleanup(func() { sqliteBackend.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"bolt":   boltBackend,
		"sqlite": sqliteBackend,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, backend := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			// Missing key reads as nil.
			value, err := backend.Get("missing")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if value != nil {
				t.Errorf("Expected nil for missing key, got %q", value)
			}

			if err := backend.Put("slot", []byte("first")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			value, err = backend.Get("slot")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !bytes.Equal(value, []byte("first")) {
				t.Errorf("Expected %q, got %q", "first", value)
			}

			// Overwrite replaces the value whole.
			if err := backend.Put("slot", []byte("second")); err != nil {
				t.Fatalf("Overwrite failed: %v", err)
			}
			value, _ = backend.Get("slot")
			if !bytes.Equal(value, []byte("second")) {
				t.Errorf("Expected %q after overwrite, got %q", "second", value)
			}
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bolt")

	backend, err := NewBolt(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Put("slot", []byte("durable")); err != nil {
		t.Fatal(err)
	}
	if err := backend.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBolt(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	value, err := reopened.Get("slot")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value, []byte("durable")) {
		t.Errorf("Expected value to survive reopen, got %q", value)
	}
}
