package chesscomp

import (
	"testing"

	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

func TestPromoByteRoundTrip(t *testing.T) {
	for _, p := range []chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight} {
		if got := promoFromByte(promoByte(p)); got != p {
			t.Errorf("promoFromByte(promoByte(%v)) = %v, want %v", p, got, p)
		}
	}
}

func TestEncodeDecodeNaiveRoundTrip(t *testing.T) {
	pos := position.New()
	m, err := position.ParseUCI(pos, "e2e4")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}

	buf := encodeNaive(nil, m)
	if len(buf) != 2 {
		t.Fatalf("encodeNaive produced %d bytes, want 2", len(buf))
	}

	decoded, err := decodeNaive(pos, buf, 0, 0)
	if err != nil {
		t.Fatalf("decodeNaive: %v", err)
	}
	if decoded.S1() != m.S1() || decoded.S2() != m.S2() {
		t.Errorf("decoded move %v != original %v", decoded, m)
	}
}

func TestDecodeNaiveTruncatedBuffer(t *testing.T) {
	pos := position.New()
	if _, err := decodeNaive(pos, []byte{0x01}, 0, 0); err == nil {
		t.Fatalf("decodeNaive on a 1-byte buffer should fail")
	}
}

func TestDecodeNaiveRejectsIllegalMove(t *testing.T) {
	pos := position.New()
	// from=63 (h8) has no white piece in the starting position.
	buf := []byte{63, 63}
	if _, err := decodeNaive(pos, buf, 0, 0); err == nil {
		t.Fatalf("decodeNaive should reject an illegal from/to pair")
	}
}
