/*
compactindex.go implements the Medium compression level: a variable-width
bit stream built from a piece-selector (which of the side-to-move's
pieces moved) followed by a role-specific move index (where it went).
*/

package chesscomp

import (
	"math/bits"

	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

// neededSelectorBits returns NEEDED_BITS[k]: the number of bits required
// to select one of k pieces by index. k=1 needs zero bits (the square is
// implied); k=0 is unreachable (the side to move always has a king) but
// costs nothing either way.
func neededSelectorBits(k int) int {
	switch {
	case k <= 1:
		return 0
	case k == 2:
		return 1
	case k <= 4:
		return 2
	case k <= 8:
		return 3
	case k <= 16:
		return 4
	default:
		return 5
	}
}

// selectorIndex returns the zero-based rank of square `from` among the
// set bits of own, i.e. the count of set bits strictly below it.
func selectorIndex(own uint64, from int) int {
	return bits.OnesCount64(own & (uint64(1)<<uint(from) - 1))
}

// nthSetSquare returns the square index of the n-th (zero-based) set bit
// of bb, or -1 if bb has fewer than n+1 bits set.
func nthSetSquare(bb uint64, n int) int {
	for i := 0; i < n; i++ {
		if bb == 0 {
			return -1
		}
		bb &= bb - 1
	}
	if bb == 0 {
		return -1
	}
	return bits.TrailingZeros64(bb)
}

func file(sq int) int { return sq % 8 }
func rank(sq int) int { return sq / 8 }

var knightCodeByOffset = map[int]uint64{6: 0, 10: 1, 15: 2, 17: 3, -6: 4, -10: 5, -15: 6, -17: 7}
var knightOffsetByCode = [8]int{6, 10, 15, 17, -6, -10, -15, -17}

var kingCodeByOffset = map[int]uint64{1: 0, 9: 1, 8: 2, 7: 3, -1: 4, -9: 5, -8: 6, -7: 7}
var kingOffsetByCode = [8]int{1, 9, 8, 7, -1, -9, -8, -7}

const (
	whiteKingHome = 4
	blackKingHome = 60
)

// encodeCompactIndex writes the selector (if needed) and role-specific
// index for m, played by the side to move in pos against bitboards bb.
func encodeCompactIndex(buf *bitBuffer, pos *chess.Position, bb position.Bitboards, m chess.Move) error {
	own := position.OwnBitboard(pos, bb)
	k := bits.OnesCount64(own)
	from := int(m.S1())
	to := int(m.S2())

	if k > 1 {
		buf.appendBits(uint64(selectorIndex(own, from)), neededSelectorBits(k))
	}

	role := position.RoleAt(pos, from)
	switch role {
	case chess.Knight:
		code, ok := knightCodeByOffset[to-from]
		if !ok {
			return newEncodeError("knight move %d->%d has no valid offset code", from, to)
		}
		buf.appendBits(code, 3)
	case chess.Rook:
		buf.appendBits(rookCode(from, to), 4)
	case chess.Bishop:
		code, err := bishopCode(from, to)
		if err != nil {
			return newEncodeError("bishop move %d->%d: %v", from, to, err)
		}
		buf.appendBits(code, 4)
	case chess.Queen:
		if file(from) == file(to) || rank(from) == rank(to) {
			buf.appendBits(rookCode(from, to), 5)
		} else {
			code, err := bishopCode(from, to)
			if err != nil {
				return newEncodeError("queen move %d->%d: %v", from, to, err)
			}
			buf.appendBits(0x10|code, 5)
		}
	case chess.King:
		var code uint64
		switch {
		case m.HasTag(chess.KingSideCastle) && from == whiteKingHome:
			code = 5
		case m.HasTag(chess.QueenSideCastle) && from == whiteKingHome:
			code = 6
		case m.HasTag(chess.KingSideCastle) && from == blackKingHome:
			code = 1
		case m.HasTag(chess.QueenSideCastle) && from == blackKingHome:
			code = 2
		default:
			c, ok := kingCodeByOffset[to-from]
			if !ok {
				return newEncodeError("king move %d->%d has no valid offset code", from, to)
			}
			code = c
		}
		buf.appendBits(code, 3)
	case chess.Pawn:
		if isPromotingRank(from, pos.Turn()) {
			dir := fileDiffCode(file(to) - file(from))
			buf.appendBits(dir<<2|uint64(promoByte(m.Promo())), 4)
		} else {
			diff := to - from
			code, ok := pawnStepCode[abs(diff)]
			if !ok {
				return newEncodeError("pawn move %d->%d has no valid step code", from, to)
			}
			buf.appendBits(code, 2)
		}
	default:
		return newEncodeError("unsupported role %v for compact index encoding", role)
	}
	return nil
}

// decodeCompactIndex is the inverse of encodeCompactIndex: it reads a
// selector and role index from buf starting at *cursor, advances the
// cursor, and returns the legal move it names.
func decodeCompactIndex(buf *bitBuffer, cursor *int, pos *chess.Position, bb position.Bitboards, ply int) (chess.Move, error) {
	own := position.OwnBitboard(pos, bb)
	k := bits.OnesCount64(own)

	var from int
	if k <= 1 {
		if own == 0 {
			return chess.Move{}, newDecodeError(ply, "side to move has no pieces")
		}
		from = bits.TrailingZeros64(own)
	} else {
		nb := neededSelectorBits(k)
		v, ok := buf.tryGetBits(*cursor, nb)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading selector")
		}
		*cursor += nb
		from = nthSetSquare(own, int(v))
		if from < 0 {
			return chess.Move{}, newDecodeError(ply, "selector %d out of range for %d pieces", v, k)
		}
	}

	role := position.RoleAt(pos, from)
	var to int
	var promo = chess.NoPieceType

	switch role {
	case chess.Knight:
		code, ok := buf.tryGetBits(*cursor, 3)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading knight index")
		}
		*cursor += 3
		to = from + knightOffsetByCode[code]
	case chess.Rook:
		code, ok := buf.tryGetBits(*cursor, 4)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading rook index")
		}
		*cursor += 4
		to = decodeRookCode(from, code)
	case chess.Bishop:
		code, ok := buf.tryGetBits(*cursor, 4)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading bishop index")
		}
		*cursor += 4
		var err error
		to, err = decodeBishopCode(from, code)
		if err != nil {
			return chess.Move{}, newDecodeError(ply, "bishop index: %v", err)
		}
	case chess.Queen:
		code, ok := buf.tryGetBits(*cursor, 5)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading queen index")
		}
		*cursor += 5
		if code&0x10 == 0 {
			to = decodeRookCode(from, code&0xF)
		} else {
			var err error
			to, err = decodeBishopCode(from, code&0xF)
			if err != nil {
				return chess.Move{}, newDecodeError(ply, "queen (bishop-style) index: %v", err)
			}
		}
	case chess.King:
		code, ok := buf.tryGetBits(*cursor, 3)
		if !ok {
			return chess.Move{}, newDecodeError(ply, "buffer exhausted reading king index")
		}
		*cursor += 3
		candidate := from + kingOffsetByCode[code]
		if candidate < 0 || candidate > 63 {
			switch {
			case from == whiteKingHome && code == 5:
				candidate = 6
			case from == whiteKingHome && code == 6:
				candidate = 2
			case from == blackKingHome && code == 1:
				candidate = 62
			case from == blackKingHome && code == 2:
				candidate = 58
			default:
				return chess.Move{}, newDecodeError(ply, "king index %d from %d is off-board", code, from)
			}
		}
		to = candidate
	case chess.Pawn:
		if isPromotingRank(from, pos.Turn()) {
			code, ok := buf.tryGetBits(*cursor, 4)
			if !ok {
				return chess.Move{}, newDecodeError(ply, "buffer exhausted reading promoting pawn index")
			}
			*cursor += 4
			dirCode := (code >> 2) & 0x3
			fd, ok := fileDiffFromCode(dirCode)
			if !ok {
				return chess.Move{}, newDecodeError(ply, "invalid promotion direction code %d", dirCode)
			}
			toFile := file(from) + fd
			if toFile < 0 || toFile > 7 {
				return chess.Move{}, newDecodeError(ply, "promotion destination file %d out of range", toFile)
			}
			toRank := 7
			if pos.Turn() == chess.Black {
				toRank = 0
			}
			to = toFile + toRank*8
			promo = promoFromByte(byte(code & 0x3))
		} else {
			code, ok := buf.tryGetBits(*cursor, 2)
			if !ok {
				return chess.Move{}, newDecodeError(ply, "buffer exhausted reading pawn index")
			}
			*cursor += 2
			absStep, ok := pawnStepByCode[code]
			if !ok {
				return chess.Move{}, newDecodeError(ply, "invalid pawn step code %d", code)
			}
			sign := 1
			if pos.Turn() == chess.Black {
				sign = -1
			}
			to = from + sign*absStep
			if to < 0 || to > 63 {
				return chess.Move{}, newDecodeError(ply, "pawn destination %d out of range", to)
			}
		}
	default:
		return chess.Move{}, newDecodeError(ply, "square %d is empty, cannot decode a move from it", from)
	}

	if to < 0 || to > 63 {
		return chess.Move{}, newDecodeError(ply, "decoded destination %d out of range", to)
	}

	m, err := position.ByUCI(pos, from, to, promo)
	if err != nil {
		return chess.Move{}, newDecodeError(ply, "no legal move %d->%d: %v", from, to, err)
	}
	return m, nil
}

// rookCode encodes a same-file or same-rank move as a 4-bit index: bit3=0
// and low 3 bits = destination rank for a same-file move; bit3=1 and low
// 3 bits = destination file for a same-rank move.
func rookCode(from, to int) uint64 {
	if file(from) == file(to) {
		return uint64(rank(to))
	}
	return 0x8 | uint64(file(to))
}

func decodeRookCode(from int, code uint64) int {
	if code&0x8 == 0 {
		return file(from) + int(code&0x7)*8
	}
	return int(code&0x7) + rank(from)*8
}

// bishopCode encodes a diagonal move as a 4-bit index. The SW/NE
// diagonal (difference divisible by 9) is checked first, since an
// a1-h8 move is divisible by both 7 and 9.
func bishopCode(from, to int) (uint64, error) {
	diff := to - from
	if diff%9 == 0 {
		return 0x8 | uint64(rank(to)), nil
	}
	if diff%7 == 0 {
		return uint64(rank(to)), nil
	}
	return 0, errBadBishopMove
}

func decodeBishopCode(from int, code uint64) (int, error) {
	toRank := int(code & 0x7)
	delta := toRank - rank(from)
	var toFile int
	if code&0x8 != 0 {
		toFile = file(from) + delta // SW<->NE
	} else {
		toFile = file(from) - delta // NW<->SE
	}
	if toFile < 0 || toFile > 7 {
		return 0, errBadBishopMove
	}
	return toFile + toRank*8, nil
}

var pawnStepCode = map[int]uint64{8: 0, 7: 1, 9: 2, 16: 3}
var pawnStepByCode = map[uint64]int{0: 8, 1: 7, 2: 9, 3: 16}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func isPromotingRank(sq int, turn chess.Color) bool {
	if turn == chess.White {
		return rank(sq) == 6
	}
	return rank(sq) == 1
}

func fileDiffCode(fd int) uint64 {
	switch fd {
	case 0:
		return 0
	case -1:
		return 1
	default:
		return 2
	}
}

func fileDiffFromCode(code uint64) (int, bool) {
	switch code {
	case 0:
		return 0, true
	case 1:
		return -1, true
	case 2:
		return 1, true
	default:
		return 0, false
	}
}
