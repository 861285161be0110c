/*
replay.go adds per-ply move detail enumeration and whole-game string
rendering on top of Decoder, grounded on aixrs/src/game.rs's
move_details_iterator and to_uci_string/to_pgn_string.
*/

package chesscomp

import (
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

// PlyDetail describes one decoded ply beyond the bare Move: the role
// that moved, whether it captured (and what), castled, promoted (and
// to what), gave check, or delivered checkmate. The check/checkmate
// flags are evaluated against the position the move was played into.
type PlyDetail struct {
	Ply         int
	Role        chess.PieceType
	From, To    int
	Capture     chess.PieceType
	IsCastle    bool
	Promotion   chess.PieceType
	IsCheck     bool
	IsCheckmate bool
	IsEnPassant bool
}

// MoveDetails replays game from start and returns one PlyDetail per
// move. It stops at the first decode error, returning what it
// collected so far alongside that error.
func MoveDetails(game *EncodedGame, start *chess.Position) ([]PlyDetail, error) {
	dec := NewDecoder(game, start)
	var details []PlyDetail
	ply := 0
	for {
		pre := dec.pos
		m, next, err := dec.Next()
		if err != nil {
			return details, err
		}
		if next == nil {
			return details, nil
		}
		capture, isCapture := capturedRole(pre, m)
		if !isCapture {
			capture = chess.NoPieceType
		}
		details = append(details, PlyDetail{
			Ply:         ply,
			Role:        position.RoleAt(pre, int(m.S1())),
			From:        int(m.S1()),
			To:          int(m.S2()),
			Capture:     capture,
			IsCastle:    m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle),
			Promotion:   m.Promo(),
			IsCheck:     m.HasTag(chess.Check),
			IsCheckmate: next.Status() == chess.Checkmate,
			IsEnPassant: m.HasTag(chess.EnPassant),
		})
		ply++
	}
}

func capturedRole(pos *chess.Position, m chess.Move) (chess.PieceType, bool) {
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn, true
	}
	if !m.HasTag(chess.Capture) {
		return chess.NoPieceType, false
	}
	return position.RoleAt(pos, int(m.S2())), true
}

// UCIString replays game from start and joins every move's UCI
// notation with spaces.
func UCIString(game *EncodedGame, start *chess.Position) (string, error) {
	dec := NewDecoder(game, start)
	var parts []string
	for {
		m, next, err := dec.Next()
		if err != nil {
			return "", err
		}
		if next == nil {
			return strings.Join(parts, " "), nil
		}
		parts = append(parts, position.UCI(m))
	}
}

// SANString replays game from start and joins every move's SAN
// notation with spaces, in the usual "1. e4 e5 2. Nf3 ..." move-number
// form.
func SANString(game *EncodedGame, start *chess.Position) (string, error) {
	dec := NewDecoder(game, start)
	var b strings.Builder
	pos := start
	ply := 0
	for {
		m, next, err := dec.Next()
		if err != nil {
			return "", err
		}
		if next == nil {
			return strings.TrimSpace(b.String()), nil
		}
		if ply%2 == 0 {
			if ply > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(ply/2 + 1))
			b.WriteString(". ")
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(position.SAN(pos, m))
		pos = next
		ply++
	}
}
