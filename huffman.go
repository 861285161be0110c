/*
huffman.go implements the High compression level: the free-slot index
codec. At each ply the legal moves are sorted into a canonical order and
the played move's rank within that order is written with a canonical
prefix code — short codes for the ranks a reasonable move orderer tries
first, an escape prefix plus a raw 8-bit field for the long tail.

No published Go package implements this scheme, so it is original to
this module rather than wrapped from a third-party dependency.
*/

package chesscomp

import (
	"sort"

	"github.com/corentings/chess/v2"
)

// canonicalMoves returns pos's legal moves sorted ascending by
// (from, to, promotion), giving every ply a position-independent,
// deterministic ordering to rank against.
func canonicalMoves(pos *chess.Position) []chess.Move {
	moves := pos.ValidMoves()
	sort.Slice(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		if a.S1() != b.S1() {
			return a.S1() < b.S1()
		}
		if a.S2() != b.S2() {
			return a.S2() < b.S2()
		}
		return promoSortKey(a.Promo()) < promoSortKey(b.Promo())
	})
	return moves
}

func promoSortKey(p chess.PieceType) int {
	if p == chess.NoPieceType {
		return -1
	}
	return int(promoByte(p))
}

func rankOf(moves []chess.Move, m chess.Move) int {
	for i, c := range moves {
		if c.S1() == m.S1() && c.S2() == m.S2() && c.Promo() == m.Promo() {
			return i
		}
	}
	return -1
}

// Bucket boundaries for the free-slot rank code: bucket i covers
// 2^i ranks (bucket 0 covers exactly rank 0), prefixed by i ones
// followed by a zero, then i raw bits selecting within the bucket.
// Five ones with no terminating zero is the escape: an 8-bit raw rank
// follows, covering the full legal-move-count range (max 218).
var huffmanBucketBase = [5]int{0, 1, 3, 7, 15}

// encodeHuffman writes the free-slot rank of m among pos's legal moves.
func encodeHuffman(buf *bitBuffer, pos *chess.Position, m chess.Move) error {
	moves := canonicalMoves(pos)
	rank := rankOf(moves, m)
	if rank < 0 {
		return newEncodeError("move %s%s is not legal in this position", chess.Square(m.S1()), chess.Square(m.S2()))
	}
	writeFreeSlotRank(buf, rank)
	return nil
}

func writeFreeSlotRank(buf *bitBuffer, rank int) {
	for bucket := 0; bucket < 5; bucket++ {
		base := huffmanBucketBase[bucket]
		width := bucket
		span := 1 << width
		if rank < base+span {
			// bucket bits: `bucket` ones, then a zero, then `width` raw bits.
			prefix := uint64(1)<<uint(bucket) - 1
			buf.appendBits(prefix, bucket+1)
			buf.appendBits(uint64(rank-base), width)
			return
		}
	}
	// escape: five ones, no terminating zero, then the raw rank in 8 bits.
	buf.appendBits(0x1F, 5)
	buf.appendBits(uint64(rank), 8)
}

func readFreeSlotRank(buf *bitBuffer, cursor *int, ply int) (int, error) {
	ones := 0
	for ones < 5 {
		bit, ok := buf.tryGetBits(*cursor, 1)
		if !ok {
			return 0, newDecodeError(ply, "buffer exhausted reading free-slot rank prefix")
		}
		*cursor++
		if bit == 0 {
			break
		}
		ones++
	}
	if ones == 5 {
		v, ok := buf.tryGetBits(*cursor, 8)
		if !ok {
			return 0, newDecodeError(ply, "buffer exhausted reading escaped free-slot rank")
		}
		*cursor += 8
		return int(v), nil
	}
	v, ok := buf.tryGetBits(*cursor, ones)
	if !ok {
		return 0, newDecodeError(ply, "buffer exhausted reading free-slot rank suffix")
	}
	*cursor += ones
	return huffmanBucketBase[ones] + int(v), nil
}

// decodeHuffman reads a free-slot rank from buf and resolves it against
// pos's canonical legal move order.
func decodeHuffman(buf *bitBuffer, cursor *int, pos *chess.Position, ply int) (chess.Move, error) {
	rank, err := readFreeSlotRank(buf, cursor, ply)
	if err != nil {
		return chess.Move{}, err
	}
	moves := canonicalMoves(pos)
	if rank < 0 || rank >= len(moves) {
		return chess.Move{}, newDecodeError(ply, "free-slot rank %d out of range for %d legal moves", rank, len(moves))
	}
	return moves[rank], nil
}
