package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 15-10: from square (0-63)
// bits 9-4:   to square (0-63)
// bits 3-0:   kind tag
// Victim and mover piece are not packed; they are recovered from the
// position the move is applied to or unpacked against.
type Move uint16

// Move kind tags. Promotions carry the target piece directly in the
// tag rather than in a separate field, since a promotion can never
// also be an en passant or castling move.
const (
	tagQuiet      uint16 = 1
	tagCastle     uint16 = 2
	tagPromoQueen uint16 = 3
	tagPromoRook  uint16 = 4
	tagPromoBishop uint16 = 5
	tagPromoKnight uint16 = 6
	tagCapture    uint16 = 7
	tagEnPassant  uint16 = 8
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

func packMove(from, to Square, tag uint16) Move {
	return Move(from)<<10 | Move(to)<<4 | Move(tag)
}

func promoTag(promo PieceType) uint16 {
	switch promo {
	case Rook:
		return tagPromoRook
	case Bishop:
		return tagPromoBishop
	case Knight:
		return tagPromoKnight
	default:
		return tagPromoQueen
	}
}

// NewMove creates a quiet or capture move, inferring which from the
// position the move is generated against.
func NewMove(pos *Position, from, to Square) Move {
	if pos.IsEmpty(to) {
		return packMove(from, to, tagQuiet)
	}
	return packMove(from, to, tagCapture)
}

// NewCapture creates a move explicitly tagged as a capture, for callers
// that already know the destination holds an enemy piece.
func NewCapture(from, to Square) Move {
	return packMove(from, to, tagCapture)
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return packMove(from, to, promoTag(promo))
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return packMove(from, to, tagEnPassant)
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return packMove(from, to, tagCastle)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m >> 10) & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 4) & 0x3F)
}

// Tag returns the raw kind tag.
func (m Move) Tag() uint16 {
	return uint16(m) & 0xF
}

// Promotion returns the promotion piece type (only valid if IsPromotion() is true).
func (m Move) Promotion() PieceType {
	switch m.Tag() {
	case tagPromoRook:
		return Rook
	case tagPromoBishop:
		return Bishop
	case tagPromoKnight:
		return Knight
	default:
		return Queen
	}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	t := m.Tag()
	return t >= tagPromoQueen && t <= tagPromoKnight
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Tag() == tagCastle
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Tag() == tagEnPassant
}

// IsCapture returns true if this move captures a piece. Promotion-captures
// are recovered by checking the live position, since the tag only
// distinguishes the promotion piece.
func (m Move) IsCapture(pos *Position) bool {
	switch m.Tag() {
	case tagEnPassant, tagCapture:
		return true
	case tagCastle, tagQuiet:
		return false
	default: // promotion
		return !pos.IsEmpty(m.To())
	}
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI format move string.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	// Check for promotion
	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	// Detect special moves
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	pt := piece.Type()

	// Castling
	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}

	// En passant
	if pt == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}

	return NewMove(pos, from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square     // King positions before move
	Pieces         [2][6]Bitboard // Full piece bitboards for reliable restoration
	Occupied       [2]Bitboard   // Occupancy bitboards
	AllOccupied    Bitboard      // All pieces
	Valid          bool          // True if move was actually applied
}
