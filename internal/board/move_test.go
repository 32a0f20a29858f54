package board

import "testing"

// TestMovePackRoundTrip verifies pack/unpack preserves from, to, and the
// information needed to distinguish capture/promotion/castle/en-passant.
func TestMovePackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Move
	}{
		{"quiet", packMove(E2, E4, tagQuiet)},
		{"capture", NewCapture(D4, E5)},
		{"castle", NewCastling(E1, G1)},
		{"enPassant", NewEnPassant(E5, D6)},
		{"promoQueen", NewPromotion(A7, A8, Queen)},
		{"promoKnight", NewPromotion(A7, A8, Knight)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := tc.m.From(), tc.m.To()
			reconstructed := Move(from)<<10 | Move(to)<<4 | Move(tc.m.Tag())
			if reconstructed != tc.m {
				t.Errorf("round trip mismatch: got %v, want %v", reconstructed, tc.m)
			}
		})
	}
}

// TestMoveClassification checks IsCapture/IsPromotion/IsCastling/IsEnPassant
// agree with how each constructor tagged the move.
func TestMoveClassification(t *testing.T) {
	pos := NewPosition()

	quiet := NewMove(pos, E2, E4)
	if quiet.IsCapture(pos) || quiet.IsPromotion() || quiet.IsCastling() || quiet.IsEnPassant() {
		t.Errorf("quiet move %v misclassified", quiet)
	}

	capture := NewCapture(D4, E5)
	if !capture.IsCapture(nil) {
		t.Errorf("capture move %v not classified as capture", capture)
	}

	castle := NewCastling(E1, G1)
	if !castle.IsCastling() || castle.IsCapture(nil) {
		t.Errorf("castle move %v misclassified", castle)
	}

	ep := NewEnPassant(E5, D6)
	if !ep.IsEnPassant() || !ep.IsCapture(nil) {
		t.Errorf("en passant move %v misclassified", ep)
	}

	promo := NewPromotion(A7, A8, Rook)
	if !promo.IsPromotion() || promo.Promotion() != Rook {
		t.Errorf("promotion move %v misclassified, got promo piece %v", promo, promo.Promotion())
	}
}

// TestMakeUnmakeRestoresPosition verifies make(m); unmake(m) restores the
// Zobrist and pawn hash keys, occupancy, castling rights, king squares and
// PSQT/phase accumulators, for every legal move from a handful of
// representative positions.
func TestMakeUnmakeRestoresPosition(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"4pq2/3P4/2B5/8/8/8/8/k1K5 w - -",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		before := *pos
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			pos.UnmakeMove(m, undo)

			if pos.Hash != before.Hash {
				t.Errorf("%s: move %v: Hash not restored: got %x, want %x", fen, m, pos.Hash, before.Hash)
			}
			if pos.PawnKey != before.PawnKey {
				t.Errorf("%s: move %v: PawnKey not restored: got %x, want %x", fen, m, pos.PawnKey, before.PawnKey)
			}
			if pos.AllOccupied != before.AllOccupied {
				t.Errorf("%s: move %v: AllOccupied not restored", fen, m)
			}
			if pos.CastlingRights != before.CastlingRights {
				t.Errorf("%s: move %v: CastlingRights not restored", fen, m)
			}
			if pos.KingSquare != before.KingSquare {
				t.Errorf("%s: move %v: KingSquare not restored", fen, m)
			}
			if pos.PsqtAccum != before.PsqtAccum {
				t.Errorf("%s: move %v: PsqtAccum not restored: got %v, want %v", fen, m, pos.PsqtAccum, before.PsqtAccum)
			}
			if pos.PhaseAccum != before.PhaseAccum {
				t.Errorf("%s: move %v: PhaseAccum not restored: got %d, want %d", fen, m, pos.PhaseAccum, before.PhaseAccum)
			}
		}
	}
}

// TestPsqtPhaseAccumulatorMatchesRecompute checks the incrementally
// maintained PsqtAccum/PhaseAccum equal a from-scratch recomputation across a
// short line of play, the invariant RecomputePsqtPhase exists to verify.
func TestPsqtPhaseAccumulatorMatchesRecompute(t *testing.T) {
	pos := NewPosition()

	check := func(label string) {
		t.Helper()
		wantMg, wantEg, wantPhase := pos.ComputePsqtPhase()
		if pos.PsqtAccum[0] != wantMg || pos.PsqtAccum[1] != wantEg || pos.PhaseAccum != wantPhase {
			t.Errorf("%s: incremental accum (%d,%d,%d) != recomputed (%d,%d,%d)",
				label, pos.PsqtAccum[0], pos.PsqtAccum[1], pos.PhaseAccum, wantMg, wantEg, wantPhase)
		}
	}
	check("start")

	for i := 0; i < 5; i++ {
		moves := pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			break
		}
		pos.MakeMove(moves.Get(0))
		check("after move")
	}
}

// TestHashMatchesRecompute checks the incrementally maintained Zobrist hash
// equals the value recomputed from scratch, across a short line of play.
func TestHashMatchesRecompute(t *testing.T) {
	pos := NewPosition()

	check := func(label string) {
		t.Helper()
		if got, want := pos.Hash, pos.ComputeHash(); got != want {
			t.Errorf("%s: incremental hash %x != recomputed hash %x", label, got, want)
		}
	}
	check("start")

	for i := 0; i < 5; i++ {
		moves := pos.GenerateLegalMoves()
		if moves.Len() == 0 {
			break
		}
		pos.MakeMove(moves.Get(0))
		check("after move")
	}
}

// TestKingSquareInvariant checks king_square(c) always lies within
// color_bb[c] & piece_bb[King].
func TestKingSquareInvariant(t *testing.T) {
	pos := NewPosition()
	for _, c := range []Color{White, Black} {
		sq := pos.KingSquare[c]
		if !pos.Pieces[c][King].IsSet(sq) {
			t.Errorf("KingSquare[%v] = %v not in Pieces[%v][King] bitboard", c, sq, c)
		}
	}
}
