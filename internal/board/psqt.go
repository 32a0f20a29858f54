package board

// Piece-square tables for positional evaluation. Values are listed from
// White's perspective and mirrored for Black via Square.Mirror. These feed
// Position's incrementally maintained PsqtAccum/PhaseAccum rather than being
// recomputed from scratch on every evaluation.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// psts indexes by PieceType for every type except King, which tapers between
// kingMidgamePST and kingEndgamePST instead of using a single table.
var psts = [...][64]int{
	pawnPST, knightPST, bishopPST, rookPST, queenPST, kingMidgamePST,
}

// MaxPhase is the tapered-eval phase total of a full starting complement of
// non-pawn material: per side 2 knights and 2 bishops at 1 each, 2 rooks at
// 2 each and one queen at 4, i.e. 12 per side and 24 for both.
const MaxPhase = 24

// phaseContribution is the tapered-eval phase weight carried by one piece of
// a given type, independent of color.
var phaseContribution = [6]int{0, 1, 1, 2, 4, 0}

// PieceAdded returns the PsqtAccum/PhaseAccum delta incurred by placing a
// piece of type pt and color c on sq: midgame score, endgame score (both
// signed from White's perspective, matching PsqtAccum's convention) and the
// phase contribution (always color-agnostic and non-negative).
func PieceAdded(pt PieceType, c Color, sq Square) (mg, eg, phaseDelta int) {
	pstSq := sq
	if c == Black {
		pstSq = sq.Mirror()
	}

	var pstMg, pstEg int
	if pt == King {
		pstMg = kingMidgamePST[pstSq]
		pstEg = kingEndgamePST[pstSq]
	} else {
		v := psts[pt][pstSq]
		pstMg, pstEg = v, v
	}

	sign := 1
	if c == Black {
		sign = -1
	}

	mg = sign * (PieceValue[pt] + pstMg)
	eg = sign * (PieceValue[pt] + pstEg)
	phaseDelta = phaseContribution[pt]
	return mg, eg, phaseDelta
}

// PieceRemoved is PieceAdded's exact inverse: it undoes the delta PieceAdded
// would have applied for the same piece and square.
func PieceRemoved(pt PieceType, c Color, sq Square) (mg, eg, phaseDelta int) {
	mg, eg, phaseDelta = PieceAdded(pt, c, sq)
	return -mg, -eg, -phaseDelta
}

// ComputePsqtPhase scans every piece on the board and returns the midgame
// score, endgame score, and phase total from scratch, without touching
// PsqtAccum/PhaseAccum. Used to verify the incrementally maintained
// accumulators haven't drifted.
func (p *Position) ComputePsqtPhase() (mg, eg, phase int) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				dmg, deg, dphase := PieceAdded(pt, c, sq)
				mg += dmg
				eg += deg
				phase += dphase
			}
		}
	}
	return mg, eg, phase
}

// RecomputePsqtPhase rebuilds PsqtAccum and PhaseAccum from scratch. Called
// once at FEN load time; afterward MakeMove/UnmakeMove maintain the
// accumulators incrementally.
func (p *Position) RecomputePsqtPhase() {
	p.PsqtAccum[0], p.PsqtAccum[1], p.PhaseAccum = p.ComputePsqtPhase()
}
