package chesscomp

import "testing"

func TestNeededSelectorBits(t *testing.T) {
	cases := map[int]int{
		0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3,
		9: 4, 16: 4, 17: 5, 32: 5,
	}
	for k, want := range cases {
		if got := neededSelectorBits(k); got != want {
			t.Errorf("neededSelectorBits(%d) = %d, want %d", k, got, want)
		}
	}
}

func TestBishopCodeA1H8RoundTrip(t *testing.T) {
	const a1, h8 = 0, 63
	code, err := bishopCode(a1, h8)
	if err != nil {
		t.Fatalf("bishopCode(a1, h8): %v", err)
	}
	to, err := decodeBishopCode(a1, code)
	if err != nil {
		t.Fatalf("decodeBishopCode: %v", err)
	}
	if to != h8 {
		t.Errorf("decoded destination = %d, want h8 (%d)", to, h8)
	}
}

func TestBishopCodeH1A8RoundTrip(t *testing.T) {
	const h1, a8 = 7, 56
	code, err := bishopCode(h1, a8)
	if err != nil {
		t.Fatalf("bishopCode(h1, a8): %v", err)
	}
	to, err := decodeBishopCode(h1, code)
	if err != nil {
		t.Fatalf("decodeBishopCode: %v", err)
	}
	if to != a8 {
		t.Errorf("decoded destination = %d, want a8 (%d)", to, a8)
	}
}

func TestKingCastlingAliasCodes(t *testing.T) {
	// From e1 (square 4), the king's normal offset table has no entry that
	// lands on g1 — code 5's plain offset runs off the board, which is
	// exactly what frees it for reuse as the O-O alias.
	candidate := whiteKingHome + kingOffsetByCode[5]
	if candidate >= 0 && candidate <= 63 {
		t.Fatalf("code 5 from e1 must be off-board for the alias to be unambiguous, got %d", candidate)
	}
}
