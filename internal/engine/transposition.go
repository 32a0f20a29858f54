package engine

import (
	"sync/atomic"

	"github.com/chessplay/engine/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// entriesPerBucket groups probes into cache-line-sized buckets so a single
// probe only ever touches one cache line (spec.md §4.7).
const entriesPerBucket = 3

// maxAge is the modulus for the 5-bit generation counter.
const maxAge = 1 << 5

// ttSlot is one in-bucket entry. Its on-disk/wire shape mirrors spec.md
// §6.2's layout (flags/depth/score/hash-halves/move/static_eval); lowHash
// is XORed with a checksum of the rest of the slot so a torn concurrent
// write (one word updated, the other not) is detected on the next probe
// without requiring a lock, the same trick Stockfish uses for its
// lockless hash table.
type ttSlot struct {
	move       board.Move
	depth      int8
	genBoundPV uint8 // bits [7:3]=age [2]=isPV [1:0]=TTFlag
	score      int16
	staticEval int16
	highHash   uint32
	lowHash    uint32 // uint32(hash) XOR checksum(move,depth,genBoundPV,score,staticEval)
}

func (s *ttSlot) checksum() uint32 {
	h := uint32(s.move)
	h = h*2654435761 + uint32(uint8(s.depth))
	h = h*2654435761 + uint32(s.genBoundPV)
	h = h*2654435761 + uint32(uint16(s.score))
	h = h*2654435761 + uint32(uint16(s.staticEval))
	return h
}

func (s *ttSlot) age() uint8   { return s.genBoundPV >> 3 }
func (s *ttSlot) isPV() bool   { return s.genBoundPV&0x4 != 0 }
func (s *ttSlot) flag() TTFlag { return TTFlag(s.genBoundPV & 0x3) }

func packGenBoundPV(age uint8, isPV bool, flag TTFlag) uint8 {
	pv := uint8(0)
	if isPV {
		pv = 0x4
	}
	return (age << 3) | pv | uint8(flag)
}

// valid reports whether the slot's stored low-hash checksum matches the
// given full hash, i.e. the slot holds real data for this position and
// was not torn by a concurrent partial write.
func (s *ttSlot) valid(hash uint64) bool {
	if s.highHash != uint32(hash>>32) {
		return false
	}
	return s.lowHash^s.checksum() == uint32(hash)
}

// ttBucket is a cache-line-sized group of entries. The trailing pad field
// rounds the bucket up to 64 bytes (3*16 + 16 = 64) so buckets never share a
// cache line with their neighbor.
type ttBucket struct {
	slots [entriesPerBucket]ttSlot
	pad   [16]byte
}

// TTEntry is the externally-visible result of a Probe: a flattened view of
// whichever slot in the bucket matched.
type TTEntry struct {
	BestMove   board.Move
	Score      int16
	StaticEval int16
	Depth      int8
	Flag       TTFlag
	IsPV       bool
}

// TranspositionTable is a hash table for storing search results, organized
// as cache-line buckets of entriesPerBucket slots each (spec.md §4.7).
type TranspositionTable struct {
	buckets []ttBucket
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	bucketSize := uint64(64)
	numBuckets := (uint64(sizeMB) * 1024 * 1024) / bucketSize
	numBuckets = roundDownToPowerOf2(numBuckets)
	if numBuckets == 0 {
		numBuckets = 1
	}

	return &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table. Returns the entry
// and true if a matching, non-torn slot was found in the position's bucket.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	atomic.AddUint64(&tt.probes, 1)

	bucket := &tt.buckets[hash&tt.mask]
	for i := range bucket.slots {
		slot := &bucket.slots[i]
		if slot.valid(hash) {
			atomic.AddUint64(&tt.hits, 1)
			return TTEntry{
				BestMove:   slot.move,
				Score:      slot.score,
				StaticEval: slot.staticEval,
				Depth:      slot.depth,
				Flag:       slot.flag(),
				IsPV:       slot.isPV(),
			}, true
		}
	}

	return TTEntry{}, false
}

// Store saves a position in the transposition table, using the
// priority-ordered replacement policy from spec.md §4.7: reuse the first
// slot that already holds this position or is empty; otherwise overwrite
// the slot with the highest replace score, which grows by 4 for each
// generation the slot is older than the current search and shrinks with
// its effective depth (depth times 0.7 for non-PV entries), so stale and
// shallow entries are replaced first.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	tt.StoreWithEval(hash, depth, score, flag, bestMove, isPV, 0)
}

// StoreWithEval is Store plus the static evaluation slot spec.md §4.7 and
// §6.2 require be persisted alongside the bound.
func (tt *TranspositionTable) StoreWithEval(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool, staticEval int) {
	bucket := &tt.buckets[hash&tt.mask]

	var replace *ttSlot
	replaceScore := -1 << 30

	for i := range bucket.slots {
		slot := &bucket.slots[i]

		if slot.valid(hash) {
			replace = slot
			break
		}

		if !slot.valid(hash) && slot.highHash == 0 && slot.lowHash == 0 {
			// Genuinely empty slot: highest priority target.
			replace = slot
			break
		}

		weight := 1.0
		if !slot.isPV() {
			weight = 0.7
		}
		effective := int(float64(slot.depth) * weight)
		staleness := int(tt.age) - int(slot.age())
		if staleness < 0 {
			staleness += maxAge
		}
		priorityScore := staleness*4 - effective
		if priorityScore > replaceScore || replace == nil {
			replaceScore = priorityScore
			replace = slot
		}
	}

	if bestMove == board.NoMove && replace.valid(hash) {
		// Preserve the existing best move when storing a moveless bound
		// over an already-matching entry (e.g. a fail-low at this node).
		bestMove = replace.move
	}

	replace.move = bestMove
	replace.depth = int8(depth)
	replace.genBoundPV = packGenBoundPV(tt.age, isPV, flag)
	replace.score = int16(score)
	replace.staticEval = int16(staticEval)
	replace.highHash = uint32(hash >> 32)
	replace.lowHash = uint32(hash) ^ replace.checksum()
}

// NewSearch increments the age counter for a new search.
// This helps with replacement decisions.
func (tt *TranspositionTable) NewSearch() {
	tt.age = (tt.age + 1) % maxAge
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
	atomic.StoreUint64(&tt.hits, 0)
	atomic.StoreUint64(&tt.probes, 0)
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	sampleBuckets := 1000 / entriesPerBucket
	if sampleBuckets == 0 {
		sampleBuckets = 1
	}
	if uint64(sampleBuckets) > uint64(len(tt.buckets)) {
		sampleBuckets = len(tt.buckets)
	}

	used, total := 0, 0
	for i := 0; i < sampleBuckets; i++ {
		for _, slot := range tt.buckets[i].slots {
			total++
			if slot.depth > 0 && slot.age() == tt.age {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}

	return (used * 1000) / total
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	probes := atomic.LoadUint64(&tt.probes)
	if probes == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(&tt.hits)) / float64(probes) * 100
}

// Size returns the number of entries (not buckets) in the table.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.buckets)) * entriesPerBucket
}

// AdjustScoreFromTT adjusts a score from/to the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
