package query

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/require"

	"github.com/aix-go/chesscomp/internal/position"
)

func TestParseMaterialRoundTrip(t *testing.T) {
	c, err := parseMaterial("KQRBNPKQRBNP")
	require.NoError(t, err)
	require.Equal(t, uint8(1), c.wQ)
	require.Equal(t, uint8(1), c.wR)
	require.Equal(t, uint8(1), c.wB)
	require.Equal(t, uint8(1), c.wN)
	require.Equal(t, uint8(1), c.wP)
	require.Equal(t, uint8(1), c.bQ)
	require.Equal(t, uint8(1), c.bR)
	require.Equal(t, uint8(1), c.bB)
	require.Equal(t, uint8(1), c.bN)
	require.Equal(t, uint8(1), c.bP)
	require.Equal(t, "KQRBNPKQRBNP", materialToString(c))
}

func TestParseMaterialRejectsMissingLeadingK(t *testing.T) {
	_, err := parseMaterial("QRK")
	require.Error(t, err)
}

func TestParseMaterialRejectsThirdKing(t *testing.T) {
	_, err := parseMaterial("KQKQK")
	require.Error(t, err)
}

func TestParseImbalanceRoundTrip(t *testing.T) {
	c, err := parseImbalance("QRvN")
	require.NoError(t, err)
	require.Equal(t, uint8(1), c.wQ)
	require.Equal(t, uint8(1), c.wR)
	require.Equal(t, uint8(1), c.bN)
	require.Equal(t, "QRvN", imbalanceToString(c))
}

func TestParseImbalanceRejectsMissingSeparator(t *testing.T) {
	_, err := parseImbalance("QR")
	require.Error(t, err)
}

func TestParsePieceFlagsRoundTrip(t *testing.T) {
	f, err := parsePieceFlags("NB")
	require.NoError(t, err)
	require.True(t, f.has(chess.Knight))
	require.True(t, f.has(chess.Bishop))
	require.False(t, f.has(chess.Queen))
	require.Equal(t, "BN", pieceFlagsToString(f))
}

func TestParseSubFENMatchesSuperset(t *testing.T) {
	sf, err := parseSubFEN("8/8/8/8/4P3/8/8/8")
	require.NoError(t, err)

	board, err := parseSubFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR")
	require.NoError(t, err)

	bb := position.Bitboards{
		White: board.white, Black: board.black,
		Kings: board.king, Queens: board.queen, Rooks: board.rook,
		Bishops: board.bishop, Knights: board.knight, Pawns: board.pawn,
	}
	require.True(t, sf.matchesBoard(bb))
	require.Equal(t, "8/8/8/8/4P3/8/8/8", subFENToString(sf))
}

func TestParseSubFENRejectsWrongRankCount(t *testing.T) {
	_, err := parseSubFEN("8/8/8")
	require.Error(t, err)
}

func TestParseSubFENRejectsOverflowingRank(t *testing.T) {
	_, err := parseSubFEN("9/8/8/8/8/8/8/8")
	require.Error(t, err)
}

func TestParseSANCastles(t *testing.T) {
	p, err := parseSAN("O-O")
	require.NoError(t, err)
	require.True(t, p.kingSide)
	require.Equal(t, "O-O", sanToString(p))

	p, err = parseSAN("O-O-O")
	require.NoError(t, err)
	require.True(t, p.queenSide)
	require.Equal(t, "O-O-O", sanToString(p))
}

func TestParseSANKnightMoveWithDisambiguationAndCapture(t *testing.T) {
	p, err := parseSAN("Nbxd2")
	require.NoError(t, err)
	require.Equal(t, chess.Knight, p.role)
	require.NotNil(t, p.file)
	require.Equal(t, 1, *p.file) // 'b' -> file index 1
	require.True(t, p.capture)
	require.Equal(t, "Nbxd2", sanToString(p))
}

func TestParseSANPawnPromotion(t *testing.T) {
	p, err := parseSAN("e8=Q")
	require.NoError(t, err)
	require.Equal(t, chess.Pawn, p.role)
	require.Equal(t, chess.Queen, p.promotion)
	require.Equal(t, "e8=Q", sanToString(p))
}

func TestParseSANRejectsGarbage(t *testing.T) {
	_, err := parseSAN("not-a-move")
	require.Error(t, err)
}
