package chesscomp

import (
	"testing"

	"github.com/aix-go/chesscomp/internal/position"
)

func TestFreeSlotRankRoundTripAcrossBucketBoundaries(t *testing.T) {
	ranks := []int{0, 1, 2, 3, 6, 7, 14, 15, 30, 31, 100, 217}
	for _, rank := range ranks {
		buf := newBitBuffer()
		writeFreeSlotRank(buf, rank)

		cursor := 0
		got, err := readFreeSlotRank(buf, &cursor, 0)
		if err != nil {
			t.Fatalf("rank %d: readFreeSlotRank: %v", rank, err)
		}
		if got != rank {
			t.Errorf("rank %d round-tripped as %d", rank, got)
		}
		if cursor != buf.bitLen() {
			t.Errorf("rank %d: cursor %d left unconsumed bits, buffer has %d", rank, cursor, buf.bitLen())
		}
	}
}

func TestFreeSlotRankPrefixLengthsGrowByBucket(t *testing.T) {
	cases := []struct {
		rank     int
		wantBits int // bucket prefix+width, or 5+8 for the escape
	}{
		{0, 1},   // bucket 0: 1 terminating zero, 0 raw bits
		{1, 3},   // bucket 1: "10" + 1 raw bit
		{3, 5},   // bucket 2: "110" + 2 raw bits
		{7, 7},   // bucket 3: "1110" + 3 raw bits
		{15, 9},  // bucket 4: "11110" + 4 raw bits
		{31, 13}, // escape: 5 ones + 8 raw bits
	}
	for _, c := range cases {
		buf := newBitBuffer()
		writeFreeSlotRank(buf, c.rank)
		if buf.bitLen() != c.wantBits {
			t.Errorf("rank %d: wrote %d bits, want %d", c.rank, buf.bitLen(), c.wantBits)
		}
	}
}

func TestEncodeDecodeHuffmanRoundTrip(t *testing.T) {
	pos := position.New()
	m, err := position.ParseUCI(pos, "e2e4")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}

	buf := newBitBuffer()
	if err := encodeHuffman(buf, pos, m); err != nil {
		t.Fatalf("encodeHuffman: %v", err)
	}

	cursor := 0
	decoded, err := decodeHuffman(buf, &cursor, pos, 0)
	if err != nil {
		t.Fatalf("decodeHuffman: %v", err)
	}
	if decoded.S1() != m.S1() || decoded.S2() != m.S2() {
		t.Errorf("decoded move %v != original %v", decoded, m)
	}
}
