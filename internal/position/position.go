/*
Package position adapts github.com/corentings/chess/v2 to the "Position
service" contract the codecs and query engine are built against: a
starting position, the side to move, per-role-and-colour bitboards, a
from/to/promotion move lookup validated against the legal move list, and
SAN/UCI string conversion.

corentings/chess/v2 keeps its own twelve piece bitboards unexported, so
Bitboards derives the eight this module needs (white, black, and one per
role) from Board.SquareMap() once per ply. A standard game never has more
than 32 occupied squares, so this costs nothing a caller would notice.
*/
package position

import (
	"fmt"

	"github.com/corentings/chess/v2"
)

// Bitboards is one 64-bit mask per colour and one per role, plus the
// square occupied by nothing when queried against a role that isn't on
// the board at all (mask is simply 0 in that case).
type Bitboards struct {
	White, Black                              uint64
	Kings, Queens, Rooks, Bishops, Knights, Pawns uint64
}

// New returns the standard starting position.
func New() *chess.Position {
	return chess.StartingPosition()
}

// ComputeBitboards derives the eight role/colour bitboards for pos.
func ComputeBitboards(pos *chess.Position) Bitboards {
	var bb Bitboards
	for sq, p := range pos.Board().SquareMap() {
		mask := uint64(1) << uint(sq)
		if p.Color() == chess.White {
			bb.White |= mask
		} else {
			bb.Black |= mask
		}
		switch p.Type() {
		case chess.King:
			bb.Kings |= mask
		case chess.Queen:
			bb.Queens |= mask
		case chess.Rook:
			bb.Rooks |= mask
		case chess.Bishop:
			bb.Bishops |= mask
		case chess.Knight:
			bb.Knights |= mask
		case chess.Pawn:
			bb.Pawns |= mask
		}
	}
	return bb
}

// OwnBitboard returns the side-to-move's own-piece bitboard, exactly the
// "own" bitboard CompactIndex's selector is indexed against.
func OwnBitboard(pos *chess.Position, bb Bitboards) uint64 {
	if pos.Turn() == chess.White {
		return bb.White
	}
	return bb.Black
}

// RoleAt returns the PieceType occupying sq, or chess.NoPieceType if empty.
func RoleAt(pos *chess.Position, sq int) chess.PieceType {
	p := pos.Board().Piece(chess.Square(sq))
	if p == chess.NoPiece {
		return chess.NoPieceType
	}
	return p.Type()
}

// ByUCI finds the legal move matching the given from/to/promotion triple,
// returning an error if no legal move matches.
func ByUCI(pos *chess.Position, from, to int, promo chess.PieceType) (chess.Move, error) {
	for _, m := range pos.ValidMoves() {
		if int(m.S1()) == from && int(m.S2()) == to && m.Promo() == promo {
			return m, nil
		}
	}
	return chess.Move{}, fmt.Errorf("position: no legal move %s%s matches", chess.Square(from), chess.Square(to))
}

// ParseUCI decodes a UCI move string ("e2e4", "e7e8q") into the matching
// legal move against pos.
func ParseUCI(pos *chess.Position, uci string) (chess.Move, error) {
	if len(uci) < 4 || len(uci) > 5 {
		return chess.Move{}, fmt.Errorf("position: malformed UCI move %q", uci)
	}
	from := int(uci[0]-'a') + int(uci[1]-'1')*8
	to := int(uci[2]-'a') + int(uci[3]-'1')*8
	promo := chess.NoPieceType
	if len(uci) == 5 {
		switch uci[4] {
		case 'q':
			promo = chess.Queen
		case 'r':
			promo = chess.Rook
		case 'b':
			promo = chess.Bishop
		case 'n':
			promo = chess.Knight
		default:
			return chess.Move{}, fmt.Errorf("position: invalid promotion letter in %q", uci)
		}
	}
	return ByUCI(pos, from, to, promo)
}

// UCI renders m in UCI notation.
func UCI(m chess.Move) string {
	return chess.UCINotation{}.Encode(nil, &m)
}

// SAN renders m in Standard Algebraic Notation against the position it
// was played from (pre-move position), including the check/mate suffix.
func SAN(pos *chess.Position, m chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(pos, &m)
}
