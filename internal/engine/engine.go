package engine

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/chessplay/engine/internal/board"
	"github.com/chessplay/engine/sfnnue"
)

// NumWorkers is the number of parallel search workers (matches CPU cores).
var NumWorkers = runtime.GOMAXPROCS(0)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	MultiPV  int           // Number of principal variations to find (0 or 1 = single best move)
}

// SearchResult contains the result of a single PV search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // ~2-3 ply, 500ms
	Medium                   // depth 7, 1s
	Hard                     // Maximum strength, 3s
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second}, // Max strength (time-limited)
}

// Config holds the tunable options recognized by the engine at construction
// and via UCI setoption. Threads, Hash, SkipRatio and Persist/PersistPath
// are consumed by NewEngineWithConfig; the rest are applied
// post-construction via the Set* methods.
type Config struct {
	HashMB        int
	Threads       int
	MoveOverhead  time.Duration
	SkipRatio     int
	UseNNUE       bool
	EvalFile      string
	EvalFileSmall string
	MultiPV       int
	Persist       bool
	PersistPath   string
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		HashMB:       64,
		Threads:      runtime.GOMAXPROCS(0),
		MoveOverhead: 30 * time.Millisecond,
		SkipRatio:    2,
		MultiPV:      1,
	}
}

// Engine is the chess AI engine.
type Engine struct {
	// Workers for parallel search
	workers       []*Worker
	pawnTable     *PawnTable
	tt            *TranspositionTable
	sharedHistory *SharedHistory // Shared history for Lazy SMP
	stopFlag      atomic.Bool
	coordinator   *Coordinator

	// Legacy single-threaded searcher (for Multi-PV compatibility)
	searcher *Searcher

	difficulty Difficulty

	// Position history for repetition detection
	rootPosHashes []uint64

	// NNUE evaluation
	useNNUE bool
	nnueNet *sfnnue.Networks // Shared networks (immutable after load)

	snapshot *TTSnapshot

	logger logr.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	return NewEngineWithConfig(Config{HashMB: ttSizeMB, Threads: runtime.GOMAXPROCS(0), SkipRatio: 2, MultiPV: 1})
}

// NewEngineWithConfig creates a new engine from a full Config.
func NewEngineWithConfig(cfg Config) *Engine {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.SkipRatio <= 0 {
		cfg.SkipRatio = 2
	}
	NumWorkers = cfg.Threads

	tt := NewTranspositionTable(cfg.HashMB)
	sharedHistory := NewSharedHistory()

	e := &Engine{
		tt:            tt,
		pawnTable:     NewPawnTable(1), // Shared pawn table for legacy searcher
		sharedHistory: sharedHistory,
		difficulty:    Medium,
		workers:       make([]*Worker, NumWorkers),
		coordinator:   NewCoordinator(NumWorkers, cfg.SkipRatio),
		logger:        logr.Discard(),
	}

	e.logger.Info("creating workers", "count", NumWorkers, "gomaxprocs", runtime.GOMAXPROCS(0))

	// Create workers, each with its own pawn table for thread safety
	for i := 0; i < NumWorkers; i++ {
		workerPawnTable := NewPawnTable(1) // 1MB per worker
		e.workers[i] = NewWorker(i, tt, workerPawnTable, sharedHistory, &e.stopFlag)
	}

	// Create legacy searcher for Multi-PV
	e.searcher = NewSearcher(tt)

	if cfg.Persist {
		if snap, err := OpenTTSnapshot(cfg.PersistPath); err == nil {
			e.snapshot = snap
		} else {
			e.logger.Error(err, "failed to open TT snapshot store")
		}
	}

	return e
}

// Resize rebuilds the transposition table at a new size in MB and rebinds
// every worker and the legacy searcher to it. Existing entries are lost,
// matching the UCI convention that setting Hash clears the table.
func (e *Engine) Resize(sizeMB int) {
	tt := NewTranspositionTable(sizeMB)
	e.tt = tt
	for _, w := range e.workers {
		w.SetTT(tt)
	}
	e.searcher.tt = tt
	e.logger.V(1).Info("resized transposition table", "mb", sizeMB)
}

// SetThreads resizes the worker pool (the UCI Threads option). Existing
// search state is discarded, matching Resize's Hash-option convention.
func (e *Engine) SetThreads(n int) {
	if n <= 0 {
		n = 1
	}
	NumWorkers = n
	e.workers = make([]*Worker, n)
	for i := 0; i < n; i++ {
		workerPawnTable := NewPawnTable(1)
		e.workers[i] = NewWorker(i, e.tt, workerPawnTable, e.sharedHistory, &e.stopFlag)
	}
	e.coordinator = NewCoordinator(n, e.coordinator.skipRatio)
	e.logger.V(1).Info("resized worker pool", "threads", n)
}

// SetSkipRatio updates the Lazy-SMP depth-sharing ratio (the UCI SkipRatio
// option, §4.11).
func (e *Engine) SetSkipRatio(ratio int) {
	if ratio <= 0 {
		ratio = 1
	}
	e.coordinator = NewCoordinator(len(e.workers), ratio)
}

// SetLogger installs a structured logger used for lifecycle and diagnostic
// events. The zero value (logr.Discard()) is used until this is called.
func (e *Engine) SetLogger(l logr.Logger) {
	e.logger = l
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)

	// Set for all workers
	for _, w := range e.workers {
		w.SetRootHistory(hashes)
	}

	// Set for legacy searcher
	e.searcher.SetRootHistory(hashes)
}

// Search finds the best move for the given position.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(pos, limits)
}

// SearchWithLimits finds the best move with specific search limits.
// Uses Lazy SMP with multiple workers searching in parallel.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	e.logger.V(1).Info("search starting", "sideToMove", pos.SideToMove)

	// Reset for new search
	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.coordinator.Reset()

	if e.useNNUE && e.nnueNet != nil {
		e.logger.V(1).Info("evaluation mode", "mode", "nnue")
	} else {
		e.logger.V(1).Info("evaluation mode", "mode", "classical")
	}

	// Reset all workers
	for _, w := range e.workers {
		w.Reset()
	}

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var bestPV []board.Move
	var bestDepth int

	// Determine maximum depth
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	// Determine deadline
	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	// Create result channel
	resultCh := make(chan WorkerResult, NumWorkers*maxDepth)

	// Start workers
	var g errgroup.Group
	for i := 0; i < NumWorkers; i++ {
		workerID := i
		g.Go(func() error {
			e.workerSearch(workerID, pos, maxDepth, resultCh)
			return nil
		})
	}

	// Collect results in a separate goroutine
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(resultCh)
		close(done)
	}()

resultLoop:
	for {
		select {
		case result, ok := <-resultCh:
			if !ok {
				break resultLoop
			}

			if result.Move != board.NoMove {
				if result.Depth > bestDepth ||
					(result.Depth == bestDepth && result.Score > bestScore) {
					bestMove = result.Move
					bestScore = result.Score
					bestPV = result.PV
					bestDepth = result.Depth

					if e.OnInfo != nil {
						elapsed := time.Since(startTime)
						e.OnInfo(SearchInfo{
							Depth:    bestDepth,
							Score:    bestScore,
							Nodes:    e.getTotalNodes(),
							Time:     elapsed,
							PV:       bestPV,
							HashFull: e.tt.HashFull(),
						})
					}

					if bestScore > MateScore-100 || bestScore < -MateScore+100 {
						e.stopFlag.Store(true)
						break resultLoop
					}
				}
			}

			if !deadline.IsZero() && time.Now().After(deadline) {
				e.stopFlag.Store(true)
				break resultLoop
			}

		case <-done:
			break resultLoop
		}
	}

	e.stopFlag.Store(true)
	<-done

	if limits.MoveTime > 0 {
		e.coordinator.AccountElapsed(limits.MoveTime, time.Since(startTime))
	}

	return bestMove
}

// SearchWithUCILimits finds the best move using UCI time controls.
// Supports wtime/btime/winc/binc for proper tournament time management.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	// Initialize time manager, folding in any time banked by the coordinator
	// from previous searches in this game (§4.13a saved-time accounting).
	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)
	tm.Bank(e.coordinator.SavedTime())

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.coordinator.Reset()

	for _, w := range e.workers {
		w.Reset()
	}

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var bestPV []board.Move
	var bestDepth int
	var lastBestMove board.Move
	var stabilityCount int
	var instabilityCount int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	resultCh := make(chan WorkerResult, NumWorkers*maxDepth)

	var g errgroup.Group
	for i := 0; i < NumWorkers; i++ {
		workerID := i
		g.Go(func() error {
			e.workerSearch(workerID, pos, maxDepth, resultCh)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(resultCh)
		close(done)
	}()

resultLoop:
	for {
		select {
		case result, ok := <-resultCh:
			if !ok {
				break resultLoop
			}

			if result.Move != board.NoMove {
				if result.Depth > bestDepth ||
					(result.Depth == bestDepth && result.Score > bestScore) {

					if result.Depth > bestDepth {
						if result.Move == lastBestMove {
							stabilityCount++
							instabilityCount = 0
						} else {
							instabilityCount++
							stabilityCount = 0
						}
						lastBestMove = result.Move
					}

					bestMove = result.Move
					bestScore = result.Score
					bestPV = result.PV
					bestDepth = result.Depth

					if e.OnInfo != nil {
						elapsed := time.Since(startTime)
						e.OnInfo(SearchInfo{
							Depth:    bestDepth,
							Score:    bestScore,
							Nodes:    e.getTotalNodes(),
							Time:     elapsed,
							PV:       bestPV,
							HashFull: e.tt.HashFull(),
						})
					}

					if bestScore > MateScore-100 || bestScore < -MateScore+100 {
						e.stopFlag.Store(true)
						break resultLoop
					}

					if tm.PastOptimum() {
						if stabilityCount >= 4 {
							e.stopFlag.Store(true)
							break resultLoop
						}
					}
				}
			}

			if tm.ShouldStop() {
				e.stopFlag.Store(true)
				break resultLoop
			}

			if limits.Nodes > 0 && e.getTotalNodes() >= limits.Nodes {
				e.stopFlag.Store(true)
				break resultLoop
			}

		case <-done:
			break resultLoop
		}
	}

	e.stopFlag.Store(true)
	<-done

	e.coordinator.AccountElapsed(tm.Allocated(), time.Since(startTime))

	return bestMove
}

// workerSearch runs iterative deepening search in a worker goroutine,
// negotiating which depth to search next with the shared Coordinator
// (Lazy-SMP depth-sharing, §4.11/§4.11a) instead of a fixed per-worker
// depth offset.
func (e *Engine) workerSearch(workerID int, pos *board.Position, maxDepth int, resultCh chan<- WorkerResult) {
	worker := e.workers[workerID]
	worker.InitSearch(pos)

	var prevScore int
	lastDepth := 0

	recentScores := make([]int, 0, 10)

	for {
		if e.stopFlag.Load() {
			return
		}

		depth, isMain := e.coordinator.NextDepth(workerID, lastDepth, maxDepth)
		if depth > maxDepth {
			return
		}

		var move board.Move
		var score int

		if depth >= 5 && prevScore != 0 {
			volatility := 0
			if len(recentScores) >= 2 {
				minScore, maxScore := recentScores[0], recentScores[0]
				for _, s := range recentScores {
					if s < minScore {
						minScore = s
					}
					if s > maxScore {
						maxScore = s
					}
				}
				volatility = maxScore - minScore
			}

			var window int
			if volatility > 400 {
				window = 150 + volatility/4
			} else if volatility < 50 {
				window = 25
			} else {
				window = 50 + volatility/8
			}

			window += (workerID % 8) * 3

			alpha := prevScore - window
			beta := prevScore + window
			retryCount := 0

			for {
				move, score = worker.SearchDepth(depth, alpha, beta)

				if e.stopFlag.Load() {
					return
				}

				if score <= alpha {
					retryCount++
					if retryCount >= 2 {
						alpha = -Infinity
					} else {
						alpha = prevScore - window*2
					}
				} else if score >= beta {
					retryCount++
					if retryCount >= 2 {
						beta = Infinity
					} else {
						beta = prevScore + window*2
					}
				} else {
					break
				}

				if alpha == -Infinity && beta == Infinity {
					break
				}
			}
		} else {
			move, score = worker.SearchDepth(depth, -Infinity, Infinity)
		}

		if e.stopFlag.Load() {
			return
		}

		prevScore = score
		lastDepth = depth
		e.coordinator.MarkDone(depth)

		recentScores = append(recentScores, score)
		if len(recentScores) > 10 {
			recentScores = recentScores[1:]
		}

		pv := worker.GetPV()
		_ = isMain // unused here; the time manager is polled by the caller's result loop, not by worker 0
		resultCh <- WorkerResult{
			WorkerID: workerID,
			Depth:    depth,
			Score:    score,
			Move:     move,
			PV:       pv,
			Nodes:    worker.Nodes(),
		}
	}
}

// getTotalNodes returns the total nodes searched by all workers.
func (e *Engine) getTotalNodes() uint64 {
	var total uint64
	for _, w := range e.workers {
		total += w.Nodes()
	}
	return total
}

// SearchMultiPV finds multiple best moves (principal variations) for analysis.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits) []SearchResult {
	numPV := limits.MultiPV
	if numPV <= 0 {
		numPV = 1
	}

	results := make([]SearchResult, 0, numPV)
	excludedMoves := make([]board.Move, 0, numPV)

	for i := 0; i < numPV; i++ {
		// Search excluding already-found best moves
		move, score, pv, depth := e.searchWithExclusions(pos, limits, excludedMoves)
		if move == board.NoMove {
			break
		}

		results = append(results, SearchResult{
			Move:  move,
			Score: score,
			PV:    pv,
			Depth: depth,
		})
		excludedMoves = append(excludedMoves, move)
	}

	// Sort results by score (descending) to ensure best moves are first
	for i := 0; i < len(results)-1; i++ {
		maxIdx := i
		for j := i + 1; j < len(results); j++ {
			if results[j].Score > results[maxIdx].Score {
				maxIdx = j
			}
		}
		if maxIdx != i {
			results[i], results[maxIdx] = results[maxIdx], results[i]
		}
	}

	return results
}

// searchWithExclusions searches for best move excluding certain moves at the root.
func (e *Engine) searchWithExclusions(pos *board.Position, limits SearchLimits, excluded []board.Move) (board.Move, int, []board.Move, int) {
	e.searcher.Reset()
	e.searcher.SetExcludedMoves(excluded)
	e.tt.NewSearch()

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var bestDepth int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		move, score := e.searcher.Search(pos, depth)

		if e.searcher.IsStopped() {
			break
		}

		if move != board.NoMove {
			bestMove = move
			bestScore = score
			bestDepth = depth
		}

		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed
			if remaining < elapsed {
				break
			}
		}
	}

	pv := e.searcher.GetPV()
	e.searcher.SetExcludedMoves(nil) // Clear exclusions

	return bestMove, bestScore, pv, bestDepth
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
	e.searcher.Stop()
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	// Clear all worker orderers
	for _, w := range e.workers {
		w.orderer.Clear()
	}
	e.searcher.ClearOrderer()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// LoadNNUE loads NNUE network files.
func (e *Engine) LoadNNUE(bigPath, smallPath string) error {
	e.logger.Info("loading NNUE networks", "big", bigPath, "small", smallPath)

	nets, err := sfnnue.LoadNetworks(bigPath, smallPath)
	if err != nil {
		e.logger.Error(err, "failed to load NNUE networks")
		return WrapResource(err, "load NNUE networks")
	}
	e.nnueNet = nets

	// Initialize NNUE evaluators for all workers
	for _, w := range e.workers {
		w.initNNUE(nets)
	}

	// Initialize for legacy searcher
	e.searcher.worker.initNNUE(nets)

	e.logger.Info("NNUE networks loaded")
	return nil
}

// SetUseNNUE enables or disables NNUE evaluation.
func (e *Engine) SetUseNNUE(use bool) {
	e.useNNUE = use
	for _, w := range e.workers {
		w.useNNUE = use
	}
	e.searcher.worker.useNNUE = use

	if use {
		e.logger.V(1).Info("evaluation mode set", "mode", "nnue")
	} else {
		e.logger.V(1).Info("evaluation mode set", "mode", "classical")
	}
}

// UseNNUE returns whether NNUE evaluation is enabled.
func (e *Engine) UseNNUE() bool {
	return e.useNNUE
}

// HasNNUE returns whether NNUE networks are loaded.
func (e *Engine) HasNNUE() bool {
	return e.nnueNet != nil
}

// EnablePersistence opens the on-disk TT snapshot store if it is not
// already open, so the Persist UCI option can be toggled on after engine
// construction rather than only at startup.
func (e *Engine) EnablePersistence(path string) error {
	if e.snapshot != nil {
		return nil
	}
	snap, err := OpenTTSnapshot(path)
	if err != nil {
		return err
	}
	e.snapshot = snap
	return nil
}

// PersistTT writes the current transposition table to the on-disk snapshot
// store, if one was configured via Config.Persist.
func (e *Engine) PersistTT() error {
	if e.snapshot == nil {
		return nil
	}
	return e.snapshot.Save(e.tt)
}

// WarmTTFromSnapshot loads previously-persisted entries into the
// transposition table, if a snapshot store was configured.
func (e *Engine) WarmTTFromSnapshot() error {
	if e.snapshot == nil {
		return nil
	}
	return e.snapshot.Load(e.tt)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
