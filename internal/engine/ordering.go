package engine

import (
	"sort"

	"github.com/chessplay/engine/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore     = 10000000 // TT move gets highest priority
	GoodCaptureBase = 1000000  // Base score for good captures
	KillerScore1    = 900000   // First killer move
	KillerScore2    = 800000   // Second killer move
	BadCaptureBase  = -100000  // Losing captures
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
// Score = victimValue * 10 - attackerValue
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs)
	killers [MaxPly][2]board.Move

	// History heuristic (indexed by [from][to])
	history [64][64]int

	// Counter move heuristic (indexed by [piece][to])
	counterMoves [12][64]board.Move

	// Capture history (indexed by [attackerPiece][toSquare][capturedPieceType])
	captureHistory [12][64][6]int

	// Countermove history (indexed by [prevPiece][prevTo][movePiece][moveTo])
	countermoveHistory [12][64][12][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets the move orderer for a new search.
func (mo *MoveOrderer) Clear() {
	// Clear killers
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}

	// Age history scores (divide by 2 to prevent overflow)
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}

	// Clear counter moves
	for i := range mo.counterMoves {
		for j := range mo.counterMoves[i] {
			mo.counterMoves[i][j] = board.NoMove
		}
	}

	// Age capture history
	for i := range mo.captureHistory {
		for j := range mo.captureHistory[i] {
			for k := range mo.captureHistory[i][j] {
				mo.captureHistory[i][j][k] /= 2
			}
		}
	}

	// Age countermove history
	for i := range mo.countermoveHistory {
		for j := range mo.countermoveHistory[i] {
			for k := range mo.countermoveHistory[i][j] {
				for l := range mo.countermoveHistory[i][j][k] {
					mo.countermoveHistory[i][j][k][l] /= 2
				}
			}
		}
	}
}

// ScoreMovesWithCounter assigns scores including counter-move and CMH bonus.
// Used by the auxiliary probcut/multi-cut probes, which search a prefix of
// all legal moves by score rather than following the full staged order.
func (mo *MoveOrderer) ScoreMovesWithCounter(pos *board.Position, moves *board.MoveList, ply int, ttMove, prevMove board.Move) []int {
	scores := make([]int, moves.Len())
	counterMove := mo.GetCounterMove(prevMove, pos)

	// Get previous piece for CMH lookup
	var prevPiece board.Piece = board.NoPiece
	if prevMove != board.NoMove {
		prevPiece = pos.PieceAt(prevMove.To())
	}

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		scores[i] = mo.scoreMove(pos, move, ply, ttMove)

		// Counter-move bonus (after killers, before history)
		if move == counterMove && scores[i] < KillerScore2 {
			scores[i] = KillerScore2 - 10000 // Just below second killer
		}

		// Add countermove history bonus for quiet moves
		if !move.IsCapture(pos) && !move.IsPromotion() && move != ttMove {
			movePiece := pos.PieceAt(move.From())
			cmhScore := mo.GetCountermoveHistoryScore(prevMove, prevPiece, movePiece, move.To())
			scores[i] += cmhScore / 2 // Scale down to not dominate
		}
	}

	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	// TT move gets highest priority
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture(pos) || m.IsPromotion() {
		return mo.captureOrPromotionScore(pos, m)
	}

	// Killer moves
	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	// History heuristic for quiet moves
	return mo.history[m.From()][m.To()]
}

// captureOrPromotionScore scores a capture or promotion by MVV-LVA plus
// capture history, independent of ply or hash-move status.
func (mo *MoveOrderer) captureOrPromotionScore(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	if m.IsCapture(pos) {
		attackerPiece := pos.PieceAt(from)
		if attackerPiece == board.NoPiece {
			return GoodCaptureBase // Safety check
		}
		attacker := attackerPiece.Type()

		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			capturedPiece := pos.PieceAt(to)
			if capturedPiece == board.NoPiece {
				// Safety check - shouldn't happen but prevents panic
				return GoodCaptureBase
			}
			victim = capturedPiece.Type()
		}

		// Bounds check for safety (victim should be < King for captures)
		if victim >= board.King || attacker > board.King {
			return GoodCaptureBase
		}

		// Check if it's a winning capture using MVV-LVA
		score := GoodCaptureBase + mvvLva[victim][attacker]*1000

		// Add capture history bonus
		captureHistScore := mo.GetCaptureHistoryScore(attackerPiece, to, victim)
		score += captureHistScore / 4 // Scale appropriately

		// Bonus for capturing with a less valuable piece
		if pieceValues[attacker] < pieceValues[victim] {
			score += 10000 // Clearly winning capture
		}

		return score
	}

	// Promotion without capture
	return GoodCaptureBase - 1000 + int(m.Promotion())*100
}

// orderStage is a stage in the staged move generator's sequence.
type orderStage int

const (
	stageHash orderStage = iota
	stageGoodCaptures
	stageKillers
	stageQuiets
	stageBadCaptures
	stageDone
)

// StagedOrderer yields moves for the search one at a time, following the
// priority order: hash move, winning captures/promotions (SEE >= 0),
// killers, quiets by history, then losing captures (SEE < 0). Quiescence
// search stops after the good-captures stage.
//
// This engine folds the PV move and TT move into a single hash-move
// stage: no per-ply PV array is carried across iterative-deepening
// iterations, and the TT already holds the exact PV from the previous
// iteration at matching depth, making a distinct PV-move stage redundant.
type StagedOrderer struct {
	mo       *MoveOrderer
	ply      int
	hashMove board.Move

	stage orderStage

	goodMoves  []board.Move
	goodScores []int
	goodIdx    int

	badMoves  []board.Move
	badScores []int
	badIdx    int

	quietMoves  []board.Move
	quietScores []int
	quietIdx    int

	killer0, killer1 board.Move
	killerIdx        int

	capturesOnly bool
}

// NewStagedOrderer partitions moves into capture/killer/quiet buckets,
// splitting captures into winning and losing by SEE, ready for Next().
func NewStagedOrderer(mo *MoveOrderer, pos *board.Position, moves *board.MoveList, ply int, hashMove, prevMove board.Move, capturesOnly bool) *StagedOrderer {
	so := &StagedOrderer{mo: mo, ply: ply, hashMove: hashMove, capturesOnly: capturesOnly}
	if hashMove != board.NoMove && !moves.Contains(hashMove) {
		so.hashMove = board.NoMove
	}

	k0, k1 := mo.killers[ply][0], mo.killers[ply][1]

	counterMove := mo.GetCounterMove(prevMove, pos)
	var prevPiece board.Piece = board.NoPiece
	if prevMove != board.NoMove {
		prevPiece = pos.PieceAt(prevMove.To())
	}

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m == hashMove {
			continue
		}

		if m.IsCapture(pos) || m.IsPromotion() {
			score := mo.captureOrPromotionScore(pos, m)
			if m.IsCapture(pos) && SEE(pos, m) < 0 {
				so.badMoves = append(so.badMoves, m)
				so.badScores = append(so.badScores, score-GoodCaptureBase+BadCaptureBase)
			} else {
				so.goodMoves = append(so.goodMoves, m)
				so.goodScores = append(so.goodScores, score)
			}
			continue
		}

		if capturesOnly {
			// Only stages 1-3 apply when the caller wants captures/
			// promotions only (normal, not-in-check quiescence).
			continue
		}

		if m == k0 {
			so.killer0 = k0
			continue
		}
		if m == k1 {
			so.killer1 = k1
			continue
		}

		score := mo.history[m.From()][m.To()]
		if m == counterMove && score < KillerScore2-10000 {
			score = KillerScore2 - 10000 // just below second killer
		}
		movePiece := pos.PieceAt(m.From())
		score += mo.GetCountermoveHistoryScore(prevMove, prevPiece, movePiece, m.To()) / 2
		so.quietMoves = append(so.quietMoves, m)
		so.quietScores = append(so.quietScores, score)
	}

	sortMovesByScoreDesc(so.goodMoves, so.goodScores)
	sortMovesByScoreDesc(so.badMoves, so.badScores)
	sortMovesByScoreDesc(so.quietMoves, so.quietScores)

	return so
}

func sortMovesByScoreDesc(moves []board.Move, scores []int) {
	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	sortedMoves := make([]board.Move, len(moves))
	sortedScores := make([]int, len(scores))
	for i, j := range idx {
		sortedMoves[i] = moves[j]
		sortedScores[i] = scores[j]
	}
	copy(moves, sortedMoves)
	copy(scores, sortedScores)
}

// Next returns the next move in staged priority order, or (NoMove, false)
// once every stage is exhausted.
func (so *StagedOrderer) Next() (board.Move, bool) {
	for {
		switch so.stage {
		case stageHash:
			so.stage = stageGoodCaptures
			if so.hashMove != board.NoMove {
				return so.hashMove, true
			}
		case stageGoodCaptures:
			if so.goodIdx < len(so.goodMoves) {
				m := so.goodMoves[so.goodIdx]
				so.goodIdx++
				return m, true
			}
			if so.capturesOnly {
				so.stage = stageDone
			} else {
				so.stage = stageKillers
			}
		case stageKillers:
			if so.killerIdx == 0 {
				so.killerIdx++
				if so.killer0 != board.NoMove {
					return so.killer0, true
				}
			}
			if so.killerIdx == 1 {
				so.killerIdx++
				if so.killer1 != board.NoMove {
					return so.killer1, true
				}
			}
			so.stage = stageQuiets
		case stageQuiets:
			if so.quietIdx < len(so.quietMoves) {
				m := so.quietMoves[so.quietIdx]
				so.quietIdx++
				return m, true
			}
			so.stage = stageBadCaptures
		case stageBadCaptures:
			if so.badIdx < len(so.badMoves) {
				m := so.badMoves[so.badIdx]
				so.badIdx++
				return m, true
			}
			so.stage = stageDone
		case stageDone:
			return board.NoMove, false
		}
	}
}

// PickMove selects the best remaining move and moves it to position index.
// This allows lazy move sorting (only sort as much as needed).
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers adds a killer move at the given ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	// Ignore plies beyond the killer table
	if ply >= MaxPly {
		return
	}

	// Don't store if it's already the first killer
	if mo.killers[ply][0] == m {
		return
	}

	// Shift killers
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory updates the history score for a move.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from := m.From()
	to := m.To()

	bonus := depth * depth
	if isGood {
		mo.history[from][to] += bonus
		// Prevent overflow
		if mo.history[from][to] > 400000 {
			// Scale down all history scores
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[from][to] -= bonus
		if mo.history[from][to] < -400000 {
			mo.history[from][to] = -400000
		}
	}
}

// UpdateCounterMove updates the counter move table.
func (mo *MoveOrderer) UpdateCounterMove(prevMove, counterMove board.Move, pos *board.Position) {
	if prevMove == board.NoMove {
		return
	}

	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return
	}

	mo.counterMoves[piece][prevMove.To()] = counterMove
}

// GetCounterMove returns the counter move for a previous move.
func (mo *MoveOrderer) GetCounterMove(prevMove board.Move, pos *board.Position) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}

	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return board.NoMove
	}

	return mo.counterMoves[piece][prevMove.To()]
}

// GetHistoryScore returns the history score for a move.
// Used for history pruning in search.
func (mo *MoveOrderer) GetHistoryScore(m board.Move) int {
	return mo.history[m.From()][m.To()]
}

// UpdateCaptureHistory updates the capture history for a move.
func (mo *MoveOrderer) UpdateCaptureHistory(attackerPiece board.Piece, toSq board.Square, capturedType board.PieceType, depth int, isGood bool) {
	if attackerPiece == board.NoPiece || capturedType >= board.King {
		return
	}

	bonus := depth * depth
	if isGood {
		mo.captureHistory[attackerPiece][toSq][capturedType] += bonus
		if mo.captureHistory[attackerPiece][toSq][capturedType] > 400000 {
			mo.scaleCaptureHistory()
		}
	} else {
		mo.captureHistory[attackerPiece][toSq][capturedType] -= bonus
		if mo.captureHistory[attackerPiece][toSq][capturedType] < -400000 {
			mo.captureHistory[attackerPiece][toSq][capturedType] = -400000
		}
	}
}

func (mo *MoveOrderer) scaleCaptureHistory() {
	for i := range mo.captureHistory {
		for j := range mo.captureHistory[i] {
			for k := range mo.captureHistory[i][j] {
				mo.captureHistory[i][j][k] /= 2
			}
		}
	}
}

// GetCaptureHistoryScore returns the capture history score for a capture move.
func (mo *MoveOrderer) GetCaptureHistoryScore(attackerPiece board.Piece, toSq board.Square, capturedType board.PieceType) int {
	if attackerPiece == board.NoPiece || capturedType >= board.King {
		return 0
	}
	return mo.captureHistory[attackerPiece][toSq][capturedType]
}

// UpdateCountermoveHistory updates the countermove history for a quiet move.
func (mo *MoveOrderer) UpdateCountermoveHistory(prevMove, goodMove board.Move, prevPiece, movePiece board.Piece, depth int, isGood bool) {
	if prevMove == board.NoMove || prevPiece == board.NoPiece || movePiece == board.NoPiece {
		return
	}

	prevTo := prevMove.To()
	moveTo := goodMove.To()
	bonus := depth * depth

	if isGood {
		mo.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] += bonus
		if mo.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] > 400000 {
			mo.scaleCountermoveHistory()
		}
	} else {
		mo.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] -= bonus
		if mo.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] < -400000 {
			mo.countermoveHistory[prevPiece][prevTo][movePiece][moveTo] = -400000
		}
	}
}

func (mo *MoveOrderer) scaleCountermoveHistory() {
	for i := range mo.countermoveHistory {
		for j := range mo.countermoveHistory[i] {
			for k := range mo.countermoveHistory[i][j] {
				for l := range mo.countermoveHistory[i][j][k] {
					mo.countermoveHistory[i][j][k][l] /= 2
				}
			}
		}
	}
}

// GetCountermoveHistoryScore returns the CMH score for a move given the previous move.
func (mo *MoveOrderer) GetCountermoveHistoryScore(prevMove board.Move, prevPiece, movePiece board.Piece, moveTo board.Square) int {
	if prevMove == board.NoMove || prevPiece == board.NoPiece || movePiece == board.NoPiece {
		return 0
	}
	return mo.countermoveHistory[prevPiece][prevMove.To()][movePiece][moveTo]
}
