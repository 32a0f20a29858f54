package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/chessplay/engine/internal/board"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func mustParseMove(t *testing.T, pos *board.Position, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s, pos)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

// Scenario 1: Re1xe5 wins the e5 pawn outright; nothing black has can
// recapture on e5 (the rook on d8 does not reach it), so SEE = +100.
func TestSEEScenario1(t *testing.T) {
	pos := mustParseFEN(t, "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	m := mustParseMove(t, pos, "e1e5")

	if got := SEE(pos, m); got != 100 {
		t.Errorf("SEE(Re1xe5) = %d, want 100", got)
	}
}

// Scenario 2: same capture, but the e5 pawn is now defended by the rook on
// e8 behind it, so the full exchange loses the rook for a pawn: SEE = -550.
func TestSEEScenario2(t *testing.T) {
	pos := mustParseFEN(t, "1k2r3/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	m := mustParseMove(t, pos, "e1e5")

	if got := SEE(pos, m); got != -550 {
		t.Errorf("SEE(Re1xe5) = %d, want -550", got)
	}
}

// Scenario 3: d7xe8=Q captures the e8 pawn; the f8 queen takes the new
// queen and Bc6 (through the vacated d7) takes back, so the queens cancel
// and the exchange nets the captured pawn: SEE = +100.
func TestSEEScenario3(t *testing.T) {
	pos := mustParseFEN(t, "4pq2/3P4/2B5/8/8/8/8/k1K5 w - -")
	m := mustParseMove(t, pos, "d7e8q")

	if got := SEE(pos, m); got != 100 {
		t.Errorf("SEE(d7xe8=Q) = %d, want 100", got)
	}
}

// Scenario 4: a 10ms time budget must still produce one of the 20 standard
// opening moves, and return promptly rather than overrunning.
func TestTimeBudgetTerminatesPromptly(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	start := time.Now()
	move := eng.SearchWithLimits(pos, SearchLimits{MoveTime: 10 * time.Millisecond})
	elapsed := time.Since(start)

	if move == board.NoMove {
		t.Fatal("search returned NoMove for starting position")
	}

	legal := pos.GenerateLegalMoves()
	if !legal.Contains(move) {
		t.Errorf("search returned %v, not one of the 20 legal opening moves", move)
	}
	if legal.Len() != 20 {
		t.Fatalf("expected 20 legal opening moves, got %d", legal.Len())
	}

	// Generous slack over the nominal budget to absorb scheduling jitter;
	// still catches a search that ignores MoveTime entirely.
	if elapsed > 2*time.Second {
		t.Errorf("search took %v for a 10ms budget", elapsed)
	}
}

// Scenario 5: after 1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6??, a search of depth >= 2
// must find the mate-in-1 Qxf7#.
func TestScholarsMateFound(t *testing.T) {
	pos := mustParseFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	eng := NewEngine(16)

	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 3, MoveTime: 2 * time.Second})

	want := mustParseMove(t, pos, "h5f7")
	if move != want {
		t.Errorf("search found %v, want Qxf7# (%v)", move, want)
	}
}

// TestPieceAddedRemovedAreInverses checks the evaluator's incremental
// PSQT/phase contract (PieceAdded/PieceRemoved) are exact inverses of each
// other for every piece type and color on e4.
func TestPieceAddedRemovedAreInverses(t *testing.T) {
	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			mg, eg, phase := PieceAdded(pt, c, board.E4)
			rmg, reg, rphase := PieceRemoved(pt, c, board.E4)
			if mg != -rmg || eg != -reg || phase != -rphase {
				t.Errorf("PieceAdded(%v,%v,e4)=(%d,%d,%d) and PieceRemoved=(%d,%d,%d) aren't inverses",
					pt, c, mg, eg, phase, rmg, reg, rphase)
			}
		}
	}
}

// TestPieceAddedMatchesAccumulatedPsqt checks that the PsqtAccum/PhaseAccum
// difference between two otherwise-identical positions (one with an extra
// knight on e4), each built from scratch by ParseFEN, equals PieceAdded's
// standalone delta for that knight.
func TestPieceAddedMatchesAccumulatedPsqt(t *testing.T) {
	withKnight := mustParseFEN(t, "4k3/8/8/8/4N3/8/8/4K3 w - -")
	withoutKnight := mustParseFEN(t, "4k3/8/8/8/8/8/8/4K3 w - -")

	mg, eg, phase := PieceAdded(board.Knight, board.White, board.E4)
	wantMg := withKnight.PsqtAccum[0] - withoutKnight.PsqtAccum[0]
	wantEg := withKnight.PsqtAccum[1] - withoutKnight.PsqtAccum[1]
	wantPhase := withKnight.PhaseAccum - withoutKnight.PhaseAccum
	if mg != wantMg || eg != wantEg || phase != wantPhase {
		t.Errorf("PieceAdded(N,white,e4)=(%d,%d,%d), want (%d,%d,%d) from FEN accumulator diff",
			mg, eg, phase, wantMg, wantEg, wantPhase)
	}
}

// TestRepetitionDrawDetected is a white-box test of the repetition counter
// Worker.isDraw relies on: a position that has already occurred twice in
// game history (per SetRootHistory/InitSearch) must be reported as a draw
// at the very next node, independent of material or halfmove clock state.
func TestRepetitionDrawDetected(t *testing.T) {
	// A position with plenty of material on board, so the only way isDraw
	// can fire is the repetition counter (not insufficient material, and
	// halfmove clock is well under the 50-move threshold).
	pos := mustParseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 5 10")

	tt := NewTranspositionTable(1)
	pawnTable := NewPawnTable(1)
	sharedHistory := NewSharedHistory()
	var stopFlag atomic.Bool

	w := NewWorker(0, tt, pawnTable, sharedHistory, &stopFlag)
	w.SetRootHistory([]uint64{pos.Hash, pos.Hash})
	w.InitSearch(pos)

	if !w.isDraw() {
		t.Error("position reached twice in history should be detected as a repetition draw")
	}
}
