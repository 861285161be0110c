/*
rule.go implements the Rule predicate set: sub_fen, material, imbalance,
white-move/black-move, moved, captured, stm and the pass tautology
marker. Grounded directly on original_source/aixrs/src/scoutfish.rs and
subfen.rs — this module's own predicate semantics, re-expressed in Go
against the corentings/chess/v2 position adapter.
*/

package query

import (
	"regexp"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/aix-go/chesscomp/internal/position"
)

// pieceCounts is a signed-or-absolute per-colour count of Q/R/B/N/P,
// used for both "material" (absolute) and "imbalance" (signed diff).
type pieceCounts struct {
	wQ, wR, wB, wN, wP uint8
	bQ, bR, bB, bN, bP uint8
}

// parseMaterial parses a "KxxxKyyy" string: a literal K, white's extra
// piece letters, a second literal K, then black's extra piece letters.
func parseMaterial(s string) (pieceCounts, error) {
	var c pieceCounts
	if len(s) == 0 || s[0] != 'K' {
		return c, newParseError(InvalidMaterialFormat, "material string %q must start with K", s)
	}
	white := true
	for _, r := range s[1:] {
		if white {
			switch r {
			case 'P':
				c.wP++
			case 'N':
				c.wN++
			case 'B':
				c.wB++
			case 'R':
				c.wR++
			case 'Q':
				c.wQ++
			case 'K':
				white = false
			default:
				return c, newParseError(InvalidPiece, "unexpected letter %q in material string %q", r, s)
			}
		} else {
			switch r {
			case 'P':
				c.bP++
			case 'N':
				c.bN++
			case 'B':
				c.bB++
			case 'R':
				c.bR++
			case 'Q':
				c.bQ++
			case 'K':
				return c, newParseError(InvalidMaterialFormat, "material string %q has more than two kings", s)
			default:
				return c, newParseError(InvalidPiece, "unexpected letter %q in material string %q", r, s)
			}
		}
	}
	if white {
		return c, newParseError(InvalidMaterialFormat, "material string %q is missing black's K", s)
	}
	return c, nil
}

// parseImbalance parses a "WvB" string: white's piece letters, a literal
// v, black's piece letters. Either side may be empty.
func parseImbalance(s string) (pieceCounts, error) {
	var c pieceCounts
	parts := strings.Split(s, "v")
	if len(parts) != 2 {
		return c, newParseError(InvalidImbalanceFormat, "imbalance string %q must contain exactly one 'v'", s)
	}
	for _, r := range parts[0] {
		switch r {
		case 'P':
			c.wP++
		case 'N':
			c.wN++
		case 'B':
			c.wB++
		case 'R':
			c.wR++
		case 'Q':
			c.wQ++
		default:
			return c, newParseError(InvalidPiece, "unexpected letter %q in imbalance string %q", r, s)
		}
	}
	for _, r := range parts[1] {
		switch r {
		case 'P':
			c.bP++
		case 'N':
			c.bN++
		case 'B':
			c.bB++
		case 'R':
			c.bR++
		case 'Q':
			c.bQ++
		default:
			return c, newParseError(InvalidPiece, "unexpected letter %q in imbalance string %q", r, s)
		}
	}
	return c, nil
}

// pieceFlags is the set membership test used by "moved"/"captured".
type pieceFlags struct {
	k, p, n, b, r, q bool
}

func parsePieceFlags(s string) (pieceFlags, error) {
	var f pieceFlags
	for _, r := range s {
		switch r {
		case 'K':
			f.k = true
		case 'P':
			f.p = true
		case 'N':
			f.n = true
		case 'B':
			f.b = true
		case 'R':
			f.r = true
		case 'Q':
			f.q = true
		default:
			return f, newParseError(InvalidPiece, "unexpected letter %q in piece set %q", r, s)
		}
	}
	return f, nil
}

func (f pieceFlags) has(role chess.PieceType) bool {
	switch role {
	case chess.King:
		return f.k
	case chess.Pawn:
		return f.p
	case chess.Knight:
		return f.n
	case chess.Bishop:
		return f.b
	case chess.Rook:
		return f.r
	case chess.Queen:
		return f.q
	default:
		return false
	}
}

// subFEN is a partial board layout: one bitmask per piece kind plus
// colour, matched as a superset against the running board.
type subFEN struct {
	white, black                            uint64
	king, queen, rook, bishop, knight, pawn uint64
}

// parseSubFEN parses the piece-placement field of a FEN (ranks 8 down to
// 1, '/'-separated, digits for empty runs) into its eight bitboards.
func parseSubFEN(s string) (subFEN, error) {
	var sf subFEN
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return sf, newParseError(InvalidPiece, "sub-fen %q must have 8 ranks", s)
	}
	for ri, rankStr := range ranks {
		rank := 7 - ri
		file := 0
		for _, r := range rankStr {
			if r >= '1' && r <= '8' {
				file += int(r - '0')
				continue
			}
			if file > 7 {
				return sf, newParseError(InvalidPiece, "sub-fen %q overflows rank %d", s, ri+1)
			}
			sq := uint64(1) << uint(file+rank*8)
			switch r {
			case 'K':
				sf.king |= sq
				sf.white |= sq
			case 'k':
				sf.king |= sq
				sf.black |= sq
			case 'Q':
				sf.queen |= sq
				sf.white |= sq
			case 'q':
				sf.queen |= sq
				sf.black |= sq
			case 'R':
				sf.rook |= sq
				sf.white |= sq
			case 'r':
				sf.rook |= sq
				sf.black |= sq
			case 'B':
				sf.bishop |= sq
				sf.white |= sq
			case 'b':
				sf.bishop |= sq
				sf.black |= sq
			case 'N':
				sf.knight |= sq
				sf.white |= sq
			case 'n':
				sf.knight |= sq
				sf.black |= sq
			case 'P':
				sf.pawn |= sq
				sf.white |= sq
			case 'p':
				sf.pawn |= sq
				sf.black |= sq
			default:
				return sf, newParseError(InvalidPiece, "unexpected rune %q in sub-fen %q", r, s)
			}
			file++
		}
		if file != 8 {
			return sf, newParseError(InvalidPiece, "sub-fen %q rank %d does not sum to 8 files", s, ri+1)
		}
	}
	return sf, nil
}

func (sf subFEN) matchesBoard(bb position.Bitboards) bool {
	return bb.White&sf.white == sf.white &&
		bb.Black&sf.black == sf.black &&
		bb.Kings&sf.king == sf.king &&
		bb.Queens&sf.queen == sf.queen &&
		bb.Rooks&sf.rook == sf.rook &&
		bb.Bishops&sf.bishop == sf.bishop &&
		bb.Knights&sf.knight == sf.knight &&
		bb.Pawns&sf.pawn == sf.pawn
}

// sanPattern is a parsed SAN move pattern: a castle, or a role/
// disambiguation/capture/destination/promotion tuple. file/rank are
// nil when the SAN text didn't disambiguate on that axis.
type sanPattern struct {
	kingSide, queenSide bool
	role                chess.PieceType
	file, rank          *int
	capture             bool
	to                  int
	promotion           chess.PieceType
}

var sanRE = regexp.MustCompile(`^([KQRBN]?)([a-h]?)([1-8]?)(x?)([a-h][1-8])(=[QRBN])?[+#]?$`)

func parseSAN(s string) (sanPattern, error) {
	switch s {
	case "O-O", "0-0":
		return sanPattern{kingSide: true}, nil
	case "O-O-O", "0-0-0":
		return sanPattern{queenSide: true}, nil
	}

	m := sanRE.FindStringSubmatch(s)
	if m == nil {
		return sanPattern{}, newParseError(InvalidSan, "%q is not a recognised SAN move", s)
	}
	p := sanPattern{role: chess.Pawn, promotion: chess.NoPieceType}
	if m[1] != "" {
		p.role = pieceTypeFromLetter(rune(m[1][0]))
	}
	if m[2] != "" {
		f := int(m[2][0] - 'a')
		p.file = &f
	}
	if m[3] != "" {
		r := int(m[3][0] - '1')
		p.rank = &r
	}
	p.capture = m[4] == "x"
	p.to = int(m[5][0]-'a') + int(m[5][1]-'1')*8
	if m[6] != "" {
		p.promotion = pieceTypeFromLetter(rune(m[6][1]))
	}
	return p, nil
}

func pieceTypeFromLetter(r rune) chess.PieceType {
	switch r {
	case 'Q':
		return chess.Queen
	case 'R':
		return chess.Rook
	case 'B':
		return chess.Bishop
	case 'N':
		return chess.Knight
	case 'K':
		return chess.King
	default:
		return chess.Pawn
	}
}

func (p sanPattern) matches(pos *chess.Position, m chess.Move) bool {
	if p.kingSide {
		return m.HasTag(chess.KingSideCastle)
	}
	if p.queenSide {
		return m.HasTag(chess.QueenSideCastle)
	}
	from := int(m.S1())
	if position.RoleAt(pos, from) != p.role {
		return false
	}
	if int(m.S2()) != p.to {
		return false
	}
	if p.file != nil && file(from) != *p.file {
		return false
	}
	if p.rank != nil && rank(from) != *p.rank {
		return false
	}
	isCapture := m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
	if p.capture != isCapture {
		return false
	}
	return p.promotion == m.Promo()
}

func file(sq int) int { return sq % 8 }
func rank(sq int) int { return sq / 8 }

// Rule is the conjunction of every predicate present on it; an absent
// predicate imposes no constraint.
type Rule struct {
	subFen    []subFEN
	material  []pieceCounts
	imbalance []pieceCounts
	whiteMove []sanPattern
	blackMove []sanPattern
	moved     *pieceFlags
	captured  *pieceFlags
	stmWhite  *bool
	pass      bool
}

func ruleFromRaw(raw *rawRule) (*Rule, error) {
	r := &Rule{pass: raw.Pass != nil}

	if raw.SubFen != nil {
		for _, s := range raw.SubFen.values {
			sf, err := parseSubFEN(s)
			if err != nil {
				return nil, err
			}
			r.subFen = append(r.subFen, sf)
		}
	}
	if raw.Material != nil {
		for _, s := range raw.Material.values {
			c, err := parseMaterial(s)
			if err != nil {
				return nil, err
			}
			r.material = append(r.material, c)
		}
	}
	if raw.Imbalance != nil {
		for _, s := range raw.Imbalance.values {
			c, err := parseImbalance(s)
			if err != nil {
				return nil, err
			}
			r.imbalance = append(r.imbalance, c)
		}
	}
	if raw.WhiteMove != nil {
		for _, s := range raw.WhiteMove.values {
			san, err := parseSAN(s)
			if err != nil {
				return nil, err
			}
			r.whiteMove = append(r.whiteMove, san)
		}
	}
	if raw.BlackMove != nil {
		for _, s := range raw.BlackMove.values {
			san, err := parseSAN(s)
			if err != nil {
				return nil, err
			}
			r.blackMove = append(r.blackMove, san)
		}
	}
	if raw.Moved != nil {
		f, err := parsePieceFlags(*raw.Moved)
		if err != nil {
			return nil, err
		}
		r.moved = &f
	}
	if raw.Captured != nil {
		f, err := parsePieceFlags(*raw.Captured)
		if err != nil {
			return nil, err
		}
		r.captured = &f
	}
	if raw.Stm != nil {
		switch *raw.Stm {
		case "white":
			v := true
			r.stmWhite = &v
		case "black":
			v := false
			r.stmWhite = &v
		default:
			return nil, newParseError(InvalidSideToMove, "stm must be \"white\" or \"black\", got %q", *raw.Stm)
		}
	}

	return r, nil
}

// apply evaluates the rule's predicates against the move about to be
// played (nil on the final post-game step) and the pre-move position.
func (r *Rule) apply(mv *chess.Move, pos *chess.Position) bool {
	if r.stmWhite != nil && *r.stmWhite != (pos.Turn() == chess.White) {
		return false
	}
	if pos.Turn() == chess.White && r.blackMove != nil {
		return false
	}
	if pos.Turn() == chess.Black && r.whiteMove != nil {
		return false
	}

	bb := position.ComputeBitboards(pos)

	if r.moved != nil {
		if mv == nil || !r.moved.has(position.RoleAt(pos, int(mv.S1()))) {
			return false
		}
	}

	if r.captured != nil {
		if mv == nil {
			return false
		}
		role, ok := capturedRole(pos, *mv)
		if !ok || !r.captured.has(role) {
			return false
		}
	}

	if r.material != nil {
		if !matchesAnyCount(r.material, bb, false) {
			return false
		}
	}

	if r.imbalance != nil {
		if !matchesAnyCount(r.imbalance, bb, true) {
			return false
		}
	}

	patterns := r.whiteMove
	if patterns == nil {
		patterns = r.blackMove
	}
	if patterns != nil {
		if mv == nil {
			return false
		}
		matched := false
		for _, p := range patterns {
			if p.matches(pos, *mv) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if r.subFen != nil {
		matched := false
		for _, sf := range r.subFen {
			if sf.matchesBoard(bb) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// capturedRole returns the role captured by m, evaluated against the
// pre-move position; en passant always captures a pawn.
func capturedRole(pos *chess.Position, m chess.Move) (chess.PieceType, bool) {
	if m.HasTag(chess.EnPassant) {
		return chess.Pawn, true
	}
	if !m.HasTag(chess.Capture) {
		return chess.NoPieceType, false
	}
	return position.RoleAt(pos, int(m.S2())), true
}

func matchesAnyCount(candidates []pieceCounts, bb position.Bitboards, signed bool) bool {
	white := bb.White
	black := bb.Black
	wq := popcount(bb.Queens & white)
	wr := popcount(bb.Rooks & white)
	wb := popcount(bb.Bishops & white)
	wn := popcount(bb.Knights & white)
	wp := popcount(bb.Pawns & white)
	bq := popcount(bb.Queens & black)
	br := popcount(bb.Rooks & black)
	bbb := popcount(bb.Bishops & black)
	bn := popcount(bb.Knights & black)
	bp := popcount(bb.Pawns & black)

	for _, c := range candidates {
		if signed {
			if int(c.wQ)-int(c.bQ) == wq-bq &&
				int(c.wR)-int(c.bR) == wr-br &&
				int(c.wB)-int(c.bB) == wb-bbb &&
				int(c.wN)-int(c.bN) == wn-bn &&
				int(c.wP)-int(c.bP) == wp-bp {
				return true
			}
		} else {
			if int(c.wQ) == wq && int(c.wR) == wr && int(c.wB) == wb && int(c.wN) == wn && int(c.wP) == wp &&
				int(c.bQ) == bq && int(c.bR) == br && int(c.bB) == bbb && int(c.bN) == bn && int(c.bP) == bp {
				return true
			}
		}
	}
	return false
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// The ToString helpers below invert their matching parse function, used
// only by the persistent (msgpack) query encoding to round-trip a
// parsed Rule back into the string form Parse accepts.

func materialToString(c pieceCounts) string {
	var b strings.Builder
	b.WriteByte('K')
	writeRepeated(&b, 'Q', int(c.wQ))
	writeRepeated(&b, 'R', int(c.wR))
	writeRepeated(&b, 'B', int(c.wB))
	writeRepeated(&b, 'N', int(c.wN))
	writeRepeated(&b, 'P', int(c.wP))
	b.WriteByte('K')
	writeRepeated(&b, 'Q', int(c.bQ))
	writeRepeated(&b, 'R', int(c.bR))
	writeRepeated(&b, 'B', int(c.bB))
	writeRepeated(&b, 'N', int(c.bN))
	writeRepeated(&b, 'P', int(c.bP))
	return b.String()
}

func imbalanceToString(c pieceCounts) string {
	var b strings.Builder
	writeRepeated(&b, 'Q', int(c.wQ))
	writeRepeated(&b, 'R', int(c.wR))
	writeRepeated(&b, 'B', int(c.wB))
	writeRepeated(&b, 'N', int(c.wN))
	writeRepeated(&b, 'P', int(c.wP))
	b.WriteByte('v')
	writeRepeated(&b, 'Q', int(c.bQ))
	writeRepeated(&b, 'R', int(c.bR))
	writeRepeated(&b, 'B', int(c.bB))
	writeRepeated(&b, 'N', int(c.bN))
	writeRepeated(&b, 'P', int(c.bP))
	return b.String()
}

func writeRepeated(b *strings.Builder, r byte, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(r)
	}
}

func pieceFlagsToString(f pieceFlags) string {
	var b strings.Builder
	if f.k {
		b.WriteByte('K')
	}
	if f.q {
		b.WriteByte('Q')
	}
	if f.r {
		b.WriteByte('R')
	}
	if f.b {
		b.WriteByte('B')
	}
	if f.n {
		b.WriteByte('N')
	}
	if f.p {
		b.WriteByte('P')
	}
	return b.String()
}

func sanToString(p sanPattern) string {
	if p.kingSide {
		return "O-O"
	}
	if p.queenSide {
		return "O-O-O"
	}
	var b strings.Builder
	if p.role != chess.Pawn {
		b.WriteByte(roleLetter(p.role))
	}
	if p.file != nil {
		b.WriteByte(byte('a' + *p.file))
	}
	if p.rank != nil {
		b.WriteByte(byte('1' + *p.rank))
	}
	if p.capture {
		b.WriteByte('x')
	}
	b.WriteByte(byte('a' + file(p.to)))
	b.WriteByte(byte('1' + rank(p.to)))
	if p.promotion != chess.NoPieceType {
		b.WriteByte('=')
		b.WriteByte(roleLetter(p.promotion))
	}
	return b.String()
}

func roleLetter(role chess.PieceType) byte {
	switch role {
	case chess.Queen:
		return 'Q'
	case chess.Rook:
		return 'R'
	case chess.Bishop:
		return 'B'
	case chess.Knight:
		return 'N'
	case chess.King:
		return 'K'
	default:
		return 'P'
	}
}

func subFENToString(sf subFEN) string {
	var b strings.Builder
	for r8 := 7; r8 >= 0; r8-- {
		empty := 0
		for f8 := 0; f8 < 8; f8++ {
			sq := uint(f8 + r8*8)
			mask := uint64(1) << sq
			r, isWhite := subFENPieceAt(sf, mask)
			if r == 0 {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			if isWhite {
				b.WriteByte(byte(r))
			} else {
				b.WriteByte(byte(r - 'A' + 'a'))
			}
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if r8 > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

func subFENPieceAt(sf subFEN, mask uint64) (letter byte, isWhite bool) {
	isWhite = sf.white&mask != 0
	switch {
	case sf.king&mask != 0:
		return 'K', isWhite
	case sf.queen&mask != 0:
		return 'Q', isWhite
	case sf.rook&mask != 0:
		return 'R', isWhite
	case sf.bishop&mask != 0:
		return 'B', isWhite
	case sf.knight&mask != 0:
		return 'N', isWhite
	case sf.pawn&mask != 0:
		return 'P', isWhite
	default:
		return 0, false
	}
}
