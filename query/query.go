/*
query.go is the top-level Query type: the parsed form of a document
accepted by Parse, and the ply-by-ply replay driver that evaluates it
against a compressed game. Grounded on Query::apply and lib.rs's
matches_plies in original_source/aixrs.
*/

package query

import (
	"strings"

	"github.com/corentings/chess/v2"
	"github.com/vmihailenco/msgpack/v5"

	chesscomp "github.com/aix-go/chesscomp"
	"github.com/aix-go/chesscomp/internal/position"
)

// Query is a parsed query document: exactly one of rule, sequence, or
// streak is set, per Parse's dispatch on the top-level JSON shape.
type Query struct {
	rule     *Rule
	sequence *Sequence
	streak   *Streak
}

// Result is the outcome of replaying a Query against one game.
type Result struct {
	Matched bool
	// Plies holds the ply indices the query matched at, in ascending
	// order. Always length 1 for a bare rule (the first ply it held
	// at); one ply per rule element, plus each nested streak's range,
	// for a sequence; the full contiguous matched range for a streak.
	Plies []int
}

// Apply replays game from start and evaluates the query one ply at a
// time. Each step pairs the move about to be played with the position
// it's played from, so predicates like moved/captured/white-move see
// the pre-move board the same way SAN disambiguation would. Once the
// game is exhausted, one final step runs with a nil move against the
// final position, giving post-game-only predicates (material,
// imbalance, sub-fen, stm) a chance to match the finished game.
func (q *Query) Apply(game *chesscomp.EncodedGame, start *chess.Position) (Result, error) {
	dec := chesscomp.NewDecoder(game, start)

	var seqState *sequenceState
	var strState *streakState
	switch {
	case q.sequence != nil:
		seqState = newSequenceState(true)
	case q.streak != nil:
		strState = q.streak.newState()
	}

	pos := start
	ply := 0
	for {
		mv, next, err := dec.Next()
		if err != nil {
			return Result{}, err
		}
		var mvPtr *chess.Move
		if next != nil {
			mvPtr = &mv
		}

		switch {
		case q.rule != nil:
			if q.rule.apply(mvPtr, pos) {
				return Result{Matched: true, Plies: []int{ply}}, nil
			}
		case q.sequence != nil:
			switch q.sequence.apply(mvPtr, pos, seqState, ply) {
			case seqFullMatch:
				return Result{Matched: true, Plies: seqState.plies}, nil
			case seqNeverMatch:
				return Result{}, nil
			}
		case q.streak != nil:
			switch q.streak.apply(mvPtr, pos, strState) {
			case streakFullMatch:
				n := len(q.streak.rules)
				plies := make([]int, n)
				for i := range plies {
					plies[i] = ply - n + 1 + i
				}
				return Result{Matched: true, Plies: plies}, nil
			case streakNeverMatch:
				return Result{}, nil
			}
		}

		if next == nil {
			return Result{}, nil
		}
		pos = next
		ply++
	}
}

// MatchesSubFEN reports whether the piece-placement field of a FEN
// string (the part before the first space) is a superset of pattern,
// itself a sub-FEN string in the same piece-placement shape. This is
// the standalone predicate subfen.rs exposes outside of Rule, useful
// for checking one static position without replaying a game.
func MatchesSubFEN(fen, pattern string) (bool, error) {
	board := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		board = fen[:i]
	}
	bsf, err := parseSubFEN(board)
	if err != nil {
		return false, err
	}
	psf, err := parseSubFEN(pattern)
	if err != nil {
		return false, err
	}
	bb := position.Bitboards{
		White: bsf.white, Black: bsf.black,
		Kings: bsf.king, Queens: bsf.queen, Rooks: bsf.rook,
		Bishops: bsf.bishop, Knights: bsf.knight, Pawns: bsf.pawn,
	}
	return psf.matchesBoard(bb), nil
}

// PackPlies folds a matched-ply list into the single u32 scoutfish's
// wire format uses: the low 16 bits are the match count, the high 16
// bits are a 32-ply-aligned base. Alongside it, words is a 16-word
// bitmap (one bit per ply, relative to that base) of which plies
// matched — each word covers 32 plies, 16 words covers 512. Every ply
// 511 or more past the base sets the window's last bit (bit 31 of
// word 15), matching the original's fixed-size encoding.
func PackPlies(plies []int) (packed uint32, words [16]uint32) {
	if len(plies) == 0 {
		return 0, words
	}
	min := (plies[0] / 32) * 32
	for _, p := range plies {
		rel := p - min
		if rel > 511 {
			rel = 511
		}
		words[rel/32] |= 1 << uint(rel%32)
	}
	return uint32(len(plies)) | uint32(min)<<16, words
}

// persistedQuery is the msgpack-serialisable form of a Query, standing
// in for the original's bincode-serialised enum.
type persistedQuery struct {
	Rule     *persistedRule  `msgpack:"rule,omitempty"`
	Sequence []persistedElem `msgpack:"sequence,omitempty"`
	Streak   []persistedRule `msgpack:"streak,omitempty"`
}

type persistedElem struct {
	Rule   *persistedRule  `msgpack:"rule,omitempty"`
	Streak []persistedRule `msgpack:"streak,omitempty"`
}

type persistedRule struct {
	SubFen    []string `msgpack:"sub_fen,omitempty"`
	Material  []string `msgpack:"material,omitempty"`
	Imbalance []string `msgpack:"imbalance,omitempty"`
	WhiteMove []string `msgpack:"white_move,omitempty"`
	BlackMove []string `msgpack:"black_move,omitempty"`
	Moved     string   `msgpack:"moved,omitempty"`
	Captured  string   `msgpack:"captured,omitempty"`
	Stm       string   `msgpack:"stm,omitempty"`
	Pass      bool     `msgpack:"pass,omitempty"`
}

// MarshalBinary serialises q into the compact persistent form used to
// cache a parsed query alongside a stored game, via msgpack in place of
// the original's bincode.
func (q *Query) MarshalBinary() ([]byte, error) {
	pq := persistedQuery{}
	switch {
	case q.rule != nil:
		pq.Rule = toPersistedRule(q.rule)
	case q.sequence != nil:
		for _, el := range q.sequence.elements {
			var pe persistedElem
			if el.rule != nil {
				pe.Rule = toPersistedRule(el.rule)
			} else {
				for i := range el.streak.rules {
					pe.Streak = append(pe.Streak, *toPersistedRule(&el.streak.rules[i]))
				}
			}
			pq.Sequence = append(pq.Sequence, pe)
		}
	case q.streak != nil:
		for i := range q.streak.rules {
			pq.Streak = append(pq.Streak, *toPersistedRule(&q.streak.rules[i]))
		}
	}
	data, err := msgpack.Marshal(&pq)
	if err != nil {
		return nil, newParseError(SerializationError, "%v", err)
	}
	return data, nil
}

// UnmarshalQuery is the inverse of MarshalBinary.
func UnmarshalQuery(data []byte) (*Query, error) {
	var pq persistedQuery
	if err := msgpack.Unmarshal(data, &pq); err != nil {
		return nil, newParseError(SerializationError, "%v", err)
	}
	switch {
	case pq.Rule != nil:
		r, err := fromPersistedRule(pq.Rule)
		if err != nil {
			return nil, err
		}
		return &Query{rule: r}, nil
	case pq.Sequence != nil:
		elements := make([]SequenceElement, 0, len(pq.Sequence))
		for _, pe := range pq.Sequence {
			if pe.Rule != nil {
				r, err := fromPersistedRule(pe.Rule)
				if err != nil {
					return nil, err
				}
				elements = append(elements, SequenceElement{rule: r})
				continue
			}
			rules, err := fromPersistedRules(pe.Streak)
			if err != nil {
				return nil, err
			}
			elements = append(elements, SequenceElement{streak: &Streak{rules: rules}})
		}
		return &Query{sequence: &Sequence{elements: elements}}, nil
	case pq.Streak != nil:
		rules, err := fromPersistedRules(pq.Streak)
		if err != nil {
			return nil, err
		}
		return &Query{streak: &Streak{rules: rules}}, nil
	default:
		return nil, newParseError(SerializationError, "persisted query has no populated variant")
	}
}

func toPersistedRule(r *Rule) *persistedRule {
	pr := &persistedRule{Pass: r.pass}
	for _, sf := range r.subFen {
		pr.SubFen = append(pr.SubFen, subFENToString(sf))
	}
	for _, c := range r.material {
		pr.Material = append(pr.Material, materialToString(c))
	}
	for _, c := range r.imbalance {
		pr.Imbalance = append(pr.Imbalance, imbalanceToString(c))
	}
	for _, p := range r.whiteMove {
		pr.WhiteMove = append(pr.WhiteMove, sanToString(p))
	}
	for _, p := range r.blackMove {
		pr.BlackMove = append(pr.BlackMove, sanToString(p))
	}
	if r.moved != nil {
		pr.Moved = pieceFlagsToString(*r.moved)
	}
	if r.captured != nil {
		pr.Captured = pieceFlagsToString(*r.captured)
	}
	if r.stmWhite != nil {
		if *r.stmWhite {
			pr.Stm = "white"
		} else {
			pr.Stm = "black"
		}
	}
	return pr
}

func fromPersistedRule(pr *persistedRule) (*Rule, error) {
	raw := rawRule{}
	if len(pr.SubFen) > 0 {
		raw.SubFen = &stringOrSlice{values: pr.SubFen}
	}
	if len(pr.Material) > 0 {
		raw.Material = &stringOrSlice{values: pr.Material}
	}
	if len(pr.Imbalance) > 0 {
		raw.Imbalance = &stringOrSlice{values: pr.Imbalance}
	}
	if len(pr.WhiteMove) > 0 {
		raw.WhiteMove = &stringOrSlice{values: pr.WhiteMove}
	}
	if len(pr.BlackMove) > 0 {
		raw.BlackMove = &stringOrSlice{values: pr.BlackMove}
	}
	if pr.Moved != "" {
		raw.Moved = &pr.Moved
	}
	if pr.Captured != "" {
		raw.Captured = &pr.Captured
	}
	if pr.Stm != "" {
		raw.Stm = &pr.Stm
	}
	if pr.Pass {
		placeholder := "pass"
		raw.Pass = &placeholder
	}
	return ruleFromRaw(&raw)
}

func fromPersistedRules(prs []persistedRule) ([]Rule, error) {
	rules := make([]Rule, 0, len(prs))
	for i := range prs {
		r, err := fromPersistedRule(&prs[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	return rules, nil
}
