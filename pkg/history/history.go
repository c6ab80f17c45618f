package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/audiolith/jobwatch/pkg/types"
)

var bucketSnapshots = []byte("snapshots")

// defaultRetain caps how many snapshots the store keeps. Continuous mode at
// the default interval produces one per minute, so this is about a week.
const defaultRetain = 10000

// Store persists health snapshots from continuous mode in a local BoltDB
// file so `jobwatch history` can show recent trends.
type Store struct {
	db     *bolt.DB
	retain int
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshots bucket: %w", err)
	}

	return &Store{db: db, retain: defaultRetain}, nil
}

// Append stores one snapshot built from a health report. Keys are
// RFC3339Nano timestamps, so bucket order is chronological. Old entries
// beyond the retention cap are pruned in the same transaction.
func (s *Store) Append(report types.HealthReport) (*types.Snapshot, error) {
	snap := types.Snapshot{
		ID:      uuid.New().String(),
		TakenAt: report.CheckedAt,
		Workers: report.WorkerCount,
		Stuck:   report.StuckCount,
		Healthy: report.Healthy,
		Issues:  report.Issues,
	}
	if report.Queue != nil {
		snap.Visible = report.Queue.Visible
		snap.InFlight = report.Queue.InFlight
	}

	data, err := json.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		key := []byte(snap.TakenAt.UTC().Format(time.RFC3339Nano))
		if err := b.Put(key, data); err != nil {
			return err
		}
		return prune(b, s.retain)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return &snap, nil
}

// prune deletes oldest entries until at most retain remain.
func prune(b *bolt.Bucket, retain int) error {
	count := 0
	if err := b.ForEach(func(_, _ []byte) error { count++; return nil }); err != nil {
		return err
	}
	excess := count - retain
	if excess <= 0 {
		return nil
	}
	c := b.Cursor()
	for k, _ := c.First(); k != nil && excess > 0; k, _ = c.Next() {
		if err := c.Delete(); err != nil {
			return err
		}
		excess--
	}
	return nil
}

// Recent returns up to n snapshots, newest first.
func (s *Store) Recent(n int) ([]types.Snapshot, error) {
	var snaps []types.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketSnapshots).Cursor()
		for k, v := c.Last(); k != nil && len(snaps) < n; k, v = c.Prev() {
			var snap types.Snapshot
			if err := json.Unmarshal(v, &snap); err != nil {
				return fmt.Errorf("corrupt snapshot at %s: %w", k, err)
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
