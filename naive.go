/*
naive.go implements the Low compression level: a fixed two-byte record
per move. It trades size for simplicity — no bit-packing, no role
dispatch — and exists mainly as the cheap baseline the other two levels
improve on.
*/

package chesscomp

import (
	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

// promoByte/promoFromByte map between the wire encoding (Queen=0, Rook=1,
// Bishop=2, Knight=3) and chess.PieceType.
func promoByte(p chess.PieceType) byte {
	switch p {
	case chess.Queen:
		return 0
	case chess.Rook:
		return 1
	case chess.Bishop:
		return 2
	case chess.Knight:
		return 3
	default:
		return 0
	}
}

func promoFromByte(b byte) chess.PieceType {
	switch b & 0x3 {
	case 0:
		return chess.Queen
	case 1:
		return chess.Rook
	case 2:
		return chess.Bishop
	default:
		return chess.Knight
	}
}

// encodeNaive appends the two-byte record for m to out.
func encodeNaive(out []byte, m chess.Move) []byte {
	hasPromo := m.Promo() != chess.NoPieceType
	isCapture := m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)

	b1 := byte(m.S1()) & 0x3F
	if isCapture {
		b1 |= 0x80
	}
	if hasPromo {
		b1 |= 0x40
	}

	b2 := byte(m.S2()) & 0x3F
	if hasPromo {
		b2 |= promoByte(m.Promo()) << 6
	}

	return append(out, b1, b2)
}

// decodeNaive reads one two-byte record from buf[i:] and validates it
// against pos's legal moves.
func decodeNaive(pos *chess.Position, buf []byte, i, ply int) (chess.Move, error) {
	if i+2 > len(buf) {
		return chess.Move{}, newDecodeError(ply, "naive record truncated at byte %d", i)
	}
	b1, b2 := buf[i], buf[i+1]

	from := int(b1 & 0x3F)
	to := int(b2 & 0x3F)
	promo := chess.NoPieceType
	if b1&0x40 != 0 {
		promo = promoFromByte(b2 >> 6)
	}

	m, err := position.ByUCI(pos, from, to, promo)
	if err != nil {
		return chess.Move{}, newDecodeError(ply, "illegal naive move from=%d to=%d: %v", from, to, err)
	}
	return m, nil
}
