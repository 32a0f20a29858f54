package board

import "testing"

// TestFENRoundTrip checks FEN -> parse -> print -> parse yields the same
// position, compared by Zobrist hash rather than by string equality.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"4pq2/3P4/2B5/8/8/8/8/k1K5 w - -",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q): %v", fen, err)
			}
			got := pos.ToFEN()

			reparsed, err := ParseFEN(got)
			if err != nil {
				t.Fatalf("ParseFEN(ToFEN(%q)) = %q: %v", fen, got, err)
			}

			if reparsed.Hash != pos.Hash {
				t.Errorf("FEN round trip changed position: %q -> %q", fen, got)
			}
		})
	}
}
