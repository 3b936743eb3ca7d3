// Package badger stores snapshots in an embedded BadgerDB, for single-host
// deployments that want durability without a Redis server.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	backend "github.com/dgraph-io/badger/v4"
)

// DefaultPrefix namespaces snapshot keys inside the database.
const DefaultPrefix = "run/"

// Config holds the settings for opening a Store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// TTL expires snapshots. Zero keeps them forever.
	TTL time.Duration

	// Logger receives BadgerDB's own log lines. Nil silences them.
	Logger *slog.Logger
}

// Store implements ports.SnapshotStore on top of BadgerDB.
type Store struct {
	db     *backend.DB
	prefix []byte
	ttl    time.Duration
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts backend.Options
	if cfg.InMemory {
		opts = backend.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = backend.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := backend.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db, prefix: []byte(DefaultPrefix), ttl: cfg.TTL}, nil
}

func (s *Store) key(runID string) []byte {
	return append(append([]byte{}, s.prefix...), runID...)
}

// Save persists the snapshot, replacing any previous one.
func (s *Store) Save(ctx context.Context, runID string, snap *machine.Snapshot) error {
	if runID == "" {
		return errors.New("runID cannot be empty")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *backend.Txn) error {
		entry := backend.NewEntry(s.key(runID), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to save to badger: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for runID.
func (s *Store) Load(ctx context.Context, runID string) (*machine.Snapshot, error) {
	var snap machine.Snapshot
	err := s.db.View(func(txn *backend.Txn) error {
		item, err := txn.Get(s.key(runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, backend.ErrKeyNotFound) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load from badger: %w", err)
	}
	return &snap, nil
}

// Delete removes the snapshot. Deleting a missing run is not an error.
func (s *Store) Delete(ctx context.Context, runID string) error {
	return s.db.Update(func(txn *backend.Txn) error {
		return txn.Delete(s.key(runID))
	})
}

// List returns the live run IDs in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var runs []string
	err := s.db.View(func(txn *backend.Txn) error {
		opts := backend.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = s.prefix

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			runs = append(runs, string(it.Item().Key()[len(s.prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
