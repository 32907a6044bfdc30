// Package queue implements the durable pending queue and the append-only
// anchored-transaction log on bbolt.
//
// bbolt serializes all write transactions, which is what gives Enqueue /
// DrainAll their required semantics for free: concurrent enqueues never
// lose records, DrainAll observes an all-or-nothing snapshot, and two
// drains can never interleave.
package queue

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/anchorgrid/libanchor-go/event"
)

var (
	bucketPending     = []byte("pending")
	bucketPendingHash = []byte("pending_hash")
	bucketAnchored    = []byte("anchored")
	bucketAnchoredTx  = []byte("anchored_txid")
)

// Store wraps a bbolt database holding the pending queue and the
// anchored-transaction log.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("queue: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("queue: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketPendingHash, bucketAnchored, bucketAnchoredTx} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("queue: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("queue: create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// seqKey encodes a bucket sequence number as an 8-byte big-endian key,
// so cursor order is insertion order.
func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// putPending inserts one record inside an open write transaction.
func putPending(btx *bbolt.Tx, rec *PendingRecord) error {
	pending := btx.Bucket(bucketPending)
	hashIdx := btx.Bucket(bucketPendingHash)

	if rec.Kind == event.ModeImmediate {
		if hashIdx.Get(rec.Hash[:]) != nil {
			return fmt.Errorf("%w: %x", ErrDuplicatePending, rec.Hash[:8])
		}
	}

	seq, err := pending.NextSequence()
	if err != nil {
		return fmt.Errorf("queue: next sequence: %w", err)
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("queue: encode record: %w", err)
	}
	key := seqKey(seq)
	if err := pending.Put(key, data); err != nil {
		return fmt.Errorf("queue: put record: %w", err)
	}
	if rec.Immediate != nil {
		if err := hashIdx.Put(rec.Hash[:], key); err != nil {
			return fmt.Errorf("queue: put hash index: %w", err)
		}
	}
	return nil
}

// Enqueue appends one pending record. Safe to call from concurrent
// producers; bbolt serializes the writes. An immediate-mode record whose
// hash is already queued is rejected with ErrDuplicatePending.
func (s *Store) Enqueue(rec *PendingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.db.Update(func(btx *bbolt.Tx) error {
		return putPending(btx, rec)
	})
}

// Requeue re-inserts drained records in their original order after a
// failed cycle, as a single atomic write. A record whose hash raced back
// in through a producer during the cycle is silently skipped rather than
// queued twice -- the identical record is already pending, so nothing is
// lost.
func (s *Store) Requeue(records []*PendingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.Update(func(btx *bbolt.Tx) error {
		for _, rec := range records {
			if err := rec.Validate(); err != nil {
				return err
			}
			if err := putPending(btx, rec); err != nil {
				if errors.Is(err, ErrDuplicatePending) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

// DrainAll atomically removes and returns the full current queue contents
// in insertion order. Either the whole set is returned and storage is
// cleared, or an error leaves storage untouched. Exclusive with respect
// to other drains and enqueues (single bbolt write transaction).
func (s *Store) DrainAll() ([]*PendingRecord, error) {
	var records []*PendingRecord
	err := s.db.Update(func(btx *bbolt.Tx) error {
		pending := btx.Bucket(bucketPending)
		err := pending.ForEach(func(k, v []byte) error {
			var rec PendingRecord
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("queue: decode record: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		// Drop and recreate rather than deleting key by key; the
		// sequence counter resets with the bucket, which is fine since
		// keys only need to order records within one queue generation.
		for _, name := range [][]byte{bucketPending, bucketPendingHash} {
			if err := btx.DeleteBucket(name); err != nil {
				return fmt.Errorf("queue: clear bucket %q: %w", name, err)
			}
			if _, err := btx.CreateBucket(name); err != nil {
				return fmt.Errorf("queue: recreate bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of records currently pending.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.View(func(btx *bbolt.Tx) error {
		count = btx.Bucket(bucketPending).Stats().KeyN
		return nil
	})
	return count, err
}

// AppendAnchored appends one record to the anchored-transaction log.
// The log is append-only: re-recording a txid is rejected with
// ErrAnchorExists, never overwritten.
func (s *Store) AppendAnchored(rec *AnchoredTransaction) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	if rec.TxID == "" {
		return fmt.Errorf("%w: missing txid", ErrInvalidRecord)
	}

	return s.db.Update(func(btx *bbolt.Tx) error {
		log := btx.Bucket(bucketAnchored)
		idx := btx.Bucket(bucketAnchoredTx)

		if idx.Get([]byte(rec.TxID)) != nil {
			return fmt.Errorf("%w: %s", ErrAnchorExists, rec.TxID)
		}

		seq, err := log.NextSequence()
		if err != nil {
			return fmt.Errorf("queue: next sequence: %w", err)
		}
		data, err := encodeGob(rec)
		if err != nil {
			return fmt.Errorf("queue: encode anchored record: %w", err)
		}
		key := seqKey(seq)
		if err := log.Put(key, data); err != nil {
			return fmt.Errorf("queue: put anchored record: %w", err)
		}
		if err := idx.Put([]byte(rec.TxID), key); err != nil {
			return fmt.Errorf("queue: put anchored index: %w", err)
		}
		return nil
	})
}

// GetAnchored returns the anchored record for a txid, or ErrAnchorNotFound.
func (s *Store) GetAnchored(txid string) (*AnchoredTransaction, error) {
	var rec AnchoredTransaction
	err := s.db.View(func(btx *bbolt.Tx) error {
		key := btx.Bucket(bucketAnchoredTx).Get([]byte(txid))
		if key == nil {
			return fmt.Errorf("%w: %s", ErrAnchorNotFound, txid)
		}
		data := btx.Bucket(bucketAnchored).Get(key)
		if data == nil {
			return fmt.Errorf("%w: %s", ErrAnchorNotFound, txid)
		}
		return decodeGob(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAnchored returns all anchored records in append order.
func (s *Store) ListAnchored() ([]*AnchoredTransaction, error) {
	var records []*AnchoredTransaction
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketAnchored).ForEach(func(k, v []byte) error {
			var rec AnchoredTransaction
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("queue: decode anchored record: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
