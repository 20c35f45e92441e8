package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

var stateBucket = []byte("state")

// Bolt is a bbolt-backed key-value backend. All keys live in a single
// bucket; each Put is its own write transaction, so values are updated
// atomically per key.
type Bolt struct {
	db     *bolt.DB
	logger *logrus.Logger
}

// NewBolt opens (creating if needed) a bolt database at dbPath.
func NewBolt(dbPath string, logger *logrus.Logger) (*Bolt, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state bucket: %w", err)
	}

	logger.WithField("path", dbPath).Info("Bolt storage initialized")
	return &Bolt{db: db, logger: logger}, nil
}

// Get returns the stored value for key, or nil if absent.
func (b *Bolt) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(stateBucket).Get([]byte(key))
		if value != nil {
			out = make([]byte, len(value))
			copy(out, value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return out, nil
}

// Put stores value under key, replacing any prior value.
func (b *Bolt) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
