package query_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
	"github.com/aix-go/chesscomp/query"
)

// openingUCI is the canonical test game: a white kingside castle, a
// bishop sac on f7, and a tactical sequence ending in a queen checkmate
// on f7. Ply indices below are all 0-based (the first move is ply 0).
const openingUCI = "e2e4 e7e5 f1c4 b8c6 g1f3 b7b6 e1g1 g8f6 c2c3 f8c5 c4f7 e8f7 f3g5 f7g8 d1b3 f6d5 b3d5 g8f8 d5f7"

func encodeOpening(t *testing.T) *chesscomp.EncodedGame {
	t.Helper()
	start := position.New()
	enc, err := chesscomp.NewEncoder(chesscomp.Medium, start)
	require.NoError(t, err)
	pos := start
	for _, u := range strings.Fields(openingUCI) {
		m, err := position.ParseUCI(pos, u)
		require.NoError(t, err)
		require.NoError(t, enc.Push(m))
		pos = pos.Update(&m)
	}
	game, err := enc.Finish()
	require.NoError(t, err)
	return game
}

func TestWhiteCastleKingsideMatches(t *testing.T) {
	game := encodeOpening(t)
	q, err := query.Parse([]byte(`{"white-move": "O-O"}`))
	require.NoError(t, err)

	result, err := q.Apply(game, position.New())
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Equal(t, []int{6}, result.Plies)
}

func TestThreeConsecutiveKnightMovesNeverOccur(t *testing.T) {
	game := encodeOpening(t)
	q, err := query.Parse([]byte(`{"streak": [{"moved": "N"}, {"moved": "N"}, {"moved": "N"}]}`))
	require.NoError(t, err)

	result, err := q.Apply(game, position.New())
	require.NoError(t, err)
	require.False(t, result.Matched)
}

func TestStreakRestartsAtFirstRule(t *testing.T) {
	// Knight moves happen at plies 3 and 4 (b8c6, g1f3); a pawn move
	// follows only at ply 5 (b7b6). The streak's first attempt (knight at
	// ply 3, expecting a pawn at ply 4) fails since ply 4 is also a
	// knight move, but the streak must restart at ply 4 and complete via
	// ply 5 rather than giving up.
	game := encodeOpening(t)
	q, err := query.Parse([]byte(`{"streak": [{"moved": "N"}, {"moved": "P"}]}`))
	require.NoError(t, err)

	result, err := q.Apply(game, position.New())
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Equal(t, []int{4, 5}, result.Plies)
}

func TestSequenceMatchesAcrossAGap(t *testing.T) {
	// The first knight move is ply 3; the first queen move is ply 14.
	// A sequence requires order, not adjacency.
	game := encodeOpening(t)
	q, err := query.Parse([]byte(`{"sequence": [{"moved": "N"}, {"moved": "Q"}]}`))
	require.NoError(t, err)

	result, err := q.Apply(game, position.New())
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Equal(t, []int{3, 14}, result.Plies)
}

func TestMatchesSubFENSuperset(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"
	ok, err := query.MatchesSubFEN(fen, "8/8/8/8/4P3/8/8/8")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMatchesSubFENMissingPieceFails(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"
	ok, err := query.MatchesSubFEN(fen, "8/8/8/8/4Q3/8/8/8")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := query.Parse([]byte(`{"not-a-real-key": "x"}`))
	require.Error(t, err)
}

func TestPackPlies(t *testing.T) {
	packed, words := query.PackPlies([]int{3, 4})
	require.Equal(t, uint32(2), packed&0xFFFF)
	require.Equal(t, uint32(0), packed>>16)
	require.NotZero(t, words[0])
}

func TestPackPliesEncodesNonZeroBase(t *testing.T) {
	// min = (35/32)*32 = 32, so the base must survive in the high bits.
	packed, words := query.PackPlies([]int{35, 36})
	require.Equal(t, uint32(2), packed&0xFFFF)
	require.Equal(t, uint32(32), packed>>16)
	require.NotZero(t, words[0])
}

func TestQueryMsgpackRoundTrip(t *testing.T) {
	q, err := query.Parse([]byte(`{"streak": [{"moved": "N"}, {"moved": "P"}]}`))
	require.NoError(t, err)

	data, err := q.MarshalBinary()
	require.NoError(t, err)

	restored, err := query.UnmarshalQuery(data)
	require.NoError(t, err)

	game := encodeOpening(t)
	result, err := restored.Apply(game, position.New())
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Equal(t, []int{4, 5}, result.Plies)
}
