package chesscomp_test

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/require"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
)

func TestMoveDetailsRoleAndCapture(t *testing.T) {
	game := encodeUCI(t, chesscomp.Medium, openingUCI)

	details, err := chesscomp.MoveDetails(game, position.New())
	require.NoError(t, err)
	require.Len(t, details, 19)

	// ply 3: b8c6, a knight move.
	require.Equal(t, chess.Knight, details[3].Role)
	require.Equal(t, chess.NoPieceType, details[3].Capture)

	// ply 6: e1g1, white's kingside castle.
	require.True(t, details[6].IsCastle)

	// ply 10: c4f7, the bishop capturing on f7.
	require.Equal(t, chess.Bishop, details[10].Role)
	require.NotEqual(t, chess.NoPieceType, details[10].Capture)

	// ply 11: e8f7, black's king recapturing the bishop.
	require.Equal(t, chess.King, details[11].Role)
	require.Equal(t, chess.Bishop, details[11].Capture)

	// ply 14: d1b3, the first queen move.
	require.Equal(t, chess.Queen, details[14].Role)

	// ply 18: d5f7, the queen delivering checkmate on f7; no earlier ply is mate.
	for i, d := range details {
		require.Equal(t, i == 18, d.IsCheckmate, "ply %d checkmate flag", i)
	}
}

func TestUCIStringRoundTripsInput(t *testing.T) {
	game := encodeUCI(t, chesscomp.Medium, openingUCI)

	got, err := chesscomp.UCIString(game, position.New())
	require.NoError(t, err)
	require.Equal(t, openingUCI, got)
}

func TestSANStringStartsWithMoveNumbers(t *testing.T) {
	game := encodeUCI(t, chesscomp.Medium, openingUCI)

	got, err := chesscomp.SANString(game, position.New())
	require.NoError(t, err)
	require.Contains(t, got, "1. e4 e5")
	require.Contains(t, got, "2. Bc4 Nc6")
}
