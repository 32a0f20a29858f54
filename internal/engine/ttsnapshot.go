package engine

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/chessplay/engine/internal/board"
	"github.com/chessplay/engine/internal/storage"
)

// TTSnapshot persists transposition-table entries to disk so a subsequent
// `ucinewgame`/process restart can warm-start from the previous session's
// analysis instead of from an empty table (§6.2a). It is opt-in via the
// `Persist` UCI option; the search hot path never touches it.
type TTSnapshot struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// OpenTTSnapshot opens (creating if necessary) the on-disk snapshot
// database at path. An empty path resolves to the platform-standard data
// directory via internal/storage.
func OpenTTSnapshot(path string) (*TTSnapshot, error) {
	if path == "" {
		var err error
		path, err = storage.GetDatabaseDir()
		if err != nil {
			return nil, WrapResource(err, "resolve TT snapshot directory")
		}
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, WrapResource(err, "open TT snapshot database at %s", path)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, WrapResource(err, "create zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		enc.Close()
		return nil, WrapResource(err, "create zstd decoder")
	}

	return &TTSnapshot{db: db, encoder: enc, decoder: dec}, nil
}

// Close releases the underlying database handle.
func (s *TTSnapshot) Close() error {
	s.decoder.Close()
	s.encoder.Close()
	return s.db.Close()
}

// snapshotRecordLen is the fixed wire size of one persisted entry, mirroring
// the in-memory ttSlot layout from spec.md §6.2.
const snapshotRecordLen = 2 + 1 + 1 + 2 + 2

func encodeSlot(buf []byte, slot *ttSlot) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(slot.move))
	buf[2] = uint8(slot.depth)
	buf[3] = slot.genBoundPV
	binary.LittleEndian.PutUint16(buf[4:6], uint16(slot.score))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(slot.staticEval))
}

func decodeSlot(buf []byte) ttSlot {
	return ttSlot{
		move:       board.Move(binary.LittleEndian.Uint16(buf[0:2])),
		depth:      int8(buf[2]),
		genBoundPV: buf[3],
		score:      int16(binary.LittleEndian.Uint16(buf[4:6])),
		staticEval: int16(binary.LittleEndian.Uint16(buf[6:8])),
	}
}

// Save writes every occupied slot of tt to the snapshot database, keyed by
// its full 64-bit Zobrist hash, compressed with zstd.
func (s *TTSnapshot) Save(tt *TranspositionTable) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var keyBuf [8]byte
		var raw [snapshotRecordLen]byte

		for bi := range tt.buckets {
			bucket := &tt.buckets[bi]
			for si := range bucket.slots {
				slot := &bucket.slots[si]
				if slot.depth == 0 && slot.highHash == 0 && slot.lowHash == 0 {
					continue // empty slot, nothing to persist
				}

				hash := uint64(slot.highHash)<<32 | uint64(slot.lowHash^slot.checksum())
				binary.LittleEndian.PutUint64(keyBuf[:], hash)
				encodeSlot(raw[:], slot)

				compressed := s.encoder.EncodeAll(raw[:], nil)
				if err := txn.Set(append([]byte(nil), keyBuf[:]...), compressed); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Load reads persisted entries back into tt, re-deriving each slot's
// hash-halves and checksum so Probe() treats them exactly like entries
// written during this process's own search.
func (s *TTSnapshot) Load(tt *TranspositionTable) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) != 8 {
				continue
			}
			hash := binary.LittleEndian.Uint64(key)

			err := item.Value(func(compressed []byte) error {
				raw, err := s.decoder.DecodeAll(compressed, nil)
				if err != nil || len(raw) != snapshotRecordLen {
					return nil // skip corrupt/stale records rather than fail the whole load
				}
				slot := decodeSlot(raw)
				slot.highHash = uint32(hash >> 32)
				slot.lowHash = uint32(hash) ^ slot.checksum()

				bucket := &tt.buckets[hash&tt.mask]
				bucket.slots[0] = slot
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
