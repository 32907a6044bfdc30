package queue

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorgrid/libanchor-go/event"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "anchor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func makeHash(seed byte) event.Leaf {
	var h event.Leaf
	for i := range h {
		h[i] = seed
	}
	return h
}

func batchRecord(seed byte) *PendingRecord {
	return &PendingRecord{
		Kind:      event.ModeBatch,
		Hash:      makeHash(seed),
		Timestamp: time.Now().Unix(),
		Batch:     &BatchMeta{EventCount: 1, CompanyIDs: []string{"acme"}},
	}
}

func immediateRecord(seed byte) *PendingRecord {
	return &PendingRecord{
		Kind:      event.ModeImmediate,
		Hash:      makeHash(seed),
		Timestamp: time.Now().Unix(),
		Immediate: &ImmediateMeta{EventID: fmt.Sprintf("evt-%d", seed), CompanyID: "acme", PriorityTier: "premium"},
	}
}

func TestEnqueueAndCount(t *testing.T) {
	store := openTestStore(t)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.Enqueue(batchRecord(0x01)))
	require.NoError(t, store.Enqueue(batchRecord(0x02)))

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEnqueueValidation(t *testing.T) {
	store := openTestStore(t)

	err := store.Enqueue(nil)
	assert.ErrorIs(t, err, ErrNilParam)

	err = store.Enqueue(&PendingRecord{Kind: "express", Timestamp: 1})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	// Mode/metadata mismatch.
	err = store.Enqueue(&PendingRecord{Kind: event.ModeImmediate, Timestamp: 1})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestEnqueueDuplicateImmediate(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(immediateRecord(0x05)))
	err := store.Enqueue(immediateRecord(0x05))
	assert.ErrorIs(t, err, ErrDuplicatePending)

	// Batch records are not deduplicated.
	require.NoError(t, store.Enqueue(batchRecord(0x06)))
	require.NoError(t, store.Enqueue(batchRecord(0x06)))
}

func TestDrainAllPreservesOrder(t *testing.T) {
	store := openTestStore(t)

	for seed := byte(1); seed <= 5; seed++ {
		require.NoError(t, store.Enqueue(batchRecord(seed)))
	}

	records, err := store.DrainAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, makeHash(byte(i+1)), rec.Hash)
	}

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDrainAllEmpty(t *testing.T) {
	store := openTestStore(t)
	records, err := store.DrainAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// The immediate hash index is cleared with the queue: the same event may
// be re-anchored after a drain.
func TestDrainClearsHashIndex(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(immediateRecord(0x09)))
	_, err := store.DrainAll()
	require.NoError(t, err)

	require.NoError(t, store.Enqueue(immediateRecord(0x09)))
}

func TestConcurrentEnqueue(t *testing.T) {
	store := openTestStore(t)

	const producers = 8
	const perProducer = 20

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				rec := batchRecord(byte(p))
				rec.Batch.CompanyIDs = []string{fmt.Sprintf("company-%d", p)}
				assert.NoError(t, store.Enqueue(rec))
			}
		}(p)
	}
	wg.Wait()

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, producers*perProducer, count, "no record lost under concurrent enqueue")
}

// Enqueues racing a drain land either in the drained set or in the queue,
// never in both and never nowhere.
func TestConcurrentEnqueueAndDrain(t *testing.T) {
	store := openTestStore(t)

	const total = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			assert.NoError(t, store.Enqueue(batchRecord(byte(i%200))))
		}
	}()

	var drained int
	for i := 0; i < 10; i++ {
		records, err := store.DrainAll()
		require.NoError(t, err)
		drained += len(records)
	}
	wg.Wait()

	records, err := store.DrainAll()
	require.NoError(t, err)
	drained += len(records)
	assert.Equal(t, total, drained)
}

func TestRequeuePreservesOrder(t *testing.T) {
	store := openTestStore(t)

	for seed := byte(1); seed <= 3; seed++ {
		require.NoError(t, store.Enqueue(batchRecord(seed)))
	}
	records, err := store.DrainAll()
	require.NoError(t, err)

	require.NoError(t, store.Requeue(records))

	again, err := store.DrainAll()
	require.NoError(t, err)
	require.Len(t, again, 3)
	for i, rec := range again {
		assert.Equal(t, records[i].Hash, rec.Hash)
	}
}

// A producer re-enqueueing an immediate event while its drained twin is
// being requeued must not produce two copies.
func TestRequeueSkipsRacedDuplicate(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(immediateRecord(0x0A)))
	records, err := store.DrainAll()
	require.NoError(t, err)

	// Producer wins the race.
	require.NoError(t, store.Enqueue(immediateRecord(0x0A)))

	require.NoError(t, store.Requeue(records))
	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDurability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchor.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Enqueue(batchRecord(0x01)))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := reopened.DrainAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, makeHash(0x01), records[0].Hash)
	assert.Equal(t, []string{"acme"}, records[0].Batch.CompanyIDs)
}

func TestAnchoredLog(t *testing.T) {
	store := openTestStore(t)

	rec := &AnchoredTransaction{
		Hash:        makeHash(0x0B),
		TxID:        "cafe0001",
		Timestamp:   time.Now().Unix(),
		ExplorerURL: "https://explorer.example.org/txs/cafe0001",
		Status:      StatusBroadcast,
	}
	require.NoError(t, store.AppendAnchored(rec))

	// Append-only: same txid cannot be recorded twice.
	err := store.AppendAnchored(rec)
	assert.ErrorIs(t, err, ErrAnchorExists)

	got, err := store.GetAnchored("cafe0001")
	require.NoError(t, err)
	assert.Equal(t, rec.Hash, got.Hash)
	assert.Equal(t, rec.ExplorerURL, got.ExplorerURL)

	_, err = store.GetAnchored("missing")
	assert.ErrorIs(t, err, ErrAnchorNotFound)

	require.NoError(t, store.AppendAnchored(&AnchoredTransaction{
		Hash: makeHash(0x0C), TxID: "cafe0002", Timestamp: time.Now().Unix(), Status: StatusBroadcast,
	}))

	all, err := store.ListAnchored()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cafe0001", all[0].TxID)
	assert.Equal(t, "cafe0002", all[1].TxID)
}

func TestAppendAnchoredValidation(t *testing.T) {
	store := openTestStore(t)

	err := store.AppendAnchored(nil)
	assert.ErrorIs(t, err, ErrNilParam)

	err = store.AppendAnchored(&AnchoredTransaction{})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
