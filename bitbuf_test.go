package chesscomp

import "testing"

func TestAppendAndGetBitsRoundTrip(t *testing.T) {
	b := newBitBuffer()
	values := []struct {
		v uint64
		n int
	}{
		{0x1, 1},
		{0x0, 1},
		{0x3, 2},
		{0x2A, 6},
		{0x1FF, 9},
		{0x7, 3},
	}
	positions := make([]int, len(values))
	for i, vv := range values {
		positions[i] = b.bitLen()
		b.appendBits(vv.v, vv.n)
	}
	for i, vv := range values {
		got := b.getBits(positions[i], vv.n)
		if got != vv.v {
			t.Errorf("value %d: getBits(%d, %d) = %#x, want %#x", i, positions[i], vv.n, got, vv.v)
		}
	}
}

func TestTryGetBitsFailsPastBitIndex(t *testing.T) {
	b := newBitBuffer()
	b.appendBits(0x5, 4)
	if _, ok := b.tryGetBits(0, 4); !ok {
		t.Fatalf("tryGetBits within range should succeed")
	}
	if _, ok := b.tryGetBits(1, 4); ok {
		t.Fatalf("tryGetBits reading past bitIndex should fail")
	}
}

// TestReserveTailAcrossAllResidues exercises reserveTail at every possible
// nonzero bitIndex mod 8. The padding target is exact, not just "enough
// room for the tag": NewDecoder has no way to recover the true payload
// length except len(data)*8 - levelTagBits, so the final byte must always
// end with precisely levelTagBits free bits, never more.
func TestReserveTailAcrossAllResidues(t *testing.T) {
	const want = 8 - levelTagBits
	for start := 1; start < 8; start++ {
		b := newBitBuffer()
		b.appendBits(0, start)
		b.reserveTail()

		if got := b.bitIndex % 8; got != want {
			t.Errorf("start=%d: reserveTail left bitIndex%%8 = %d, want %d", start, got, want)
		}
	}
}

func TestReserveTailNoopOnEmptyBuffer(t *testing.T) {
	b := newBitBuffer()
	b.reserveTail()
	if b.bitIndex != 0 {
		t.Errorf("reserveTail on empty buffer should be a no-op, got bitIndex=%d", b.bitIndex)
	}
}

func TestBytesAndBitBufferFromBytesRoundTrip(t *testing.T) {
	b := newBitBuffer()
	b.appendBits(0xA5, 8)
	b.appendBits(0x3, 3)
	data := b.bytes()

	restored := bitBufferFromBytes(data, b.bitIndex)
	if got, _ := restored.tryGetBits(0, 8); got != 0xA5 {
		t.Errorf("restored byte 0 = %#x, want 0xA5", got)
	}
	if got, _ := restored.tryGetBits(8, 3); got != 0x3 {
		t.Errorf("restored tail bits = %#x, want 0x3", got)
	}
}
