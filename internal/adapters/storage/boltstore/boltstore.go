// Package boltstore implements the procedure usage statistics sink on top
// of a bbolt database file. Each procedure has one JSON-encoded
// ports.CallStats record, updated in place for every reported call.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time interface check.
var _ ports.MetricsSink = (*Store)(nil)

// statsBucket holds one record per procedure id.
var statsBucket = []byte("procedure_stats")

// openTimeout bounds the wait for the database file lock.
const openTimeout = time.Second

// Store is a bbolt backed metrics sink.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating metrics directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening metrics database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(statsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing metrics database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Report implements ports.MetricsSink.
func (s *Store) Report(_ context.Context, sample ports.CallSample) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(statsBucket)
		key := []byte(sample.Procedure)

		stats := ports.CallStats{Procedure: sample.Procedure}
		if data := b.Get(key); data != nil {
			if err := json.Unmarshal(data, &stats); err != nil {
				return fmt.Errorf("decoding stats for %q: %w", sample.Procedure, err)
			}
		}
		merge(&stats, sample)

		data, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("encoding stats for %q: %w", sample.Procedure, err)
		}
		return b.Put(key, data)
	})
}

// Stats implements ports.MetricsSink. Records are returned in procedure id
// order.
func (s *Store) Stats(context.Context) ([]ports.CallStats, error) {
	result := []ports.CallStats{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(statsBucket).ForEach(func(k, v []byte) error {
			var stats ports.CallStats
			if err := json.Unmarshal(v, &stats); err != nil {
				return fmt.Errorf("decoding stats for %q: %w", k, err)
			}
			result = append(result, stats)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// merge adds sample to stats.
func merge(stats *ports.CallStats, sample ports.CallSample) {
	stats.Calls++
	stats.TotalDuration += sample.Duration
	stats.MaxDuration = max(stats.MaxDuration, sample.Duration)
	if sample.Time.After(stats.LastCall) {
		stats.LastCall = sample.Time
	}
	if !sample.Success {
		stats.Failures++
		stats.LastError = sample.Error
	}
}
