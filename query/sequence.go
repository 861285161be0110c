package query

import "github.com/corentings/chess/v2"

// SequenceElement is one member of a Sequence: either a plain rule or a
// nested streak with its own internal state.
type SequenceElement struct {
	rule   *Rule
	streak *Streak
}

// Sequence matches an ordered, non-contiguous list of elements: each
// element must match at a ply strictly later than the one before it.
type Sequence struct {
	elements []SequenceElement
}

type sequenceFlow int

const (
	seqContinue sequenceFlow = iota
	seqFullMatch
	seqNeverMatch
)

type sequenceState struct {
	index        int
	streakState  *streakState
	plies        []int
	collectPlies bool
}

func newSequenceState(collectPlies bool) *sequenceState {
	return &sequenceState{collectPlies: collectPlies}
}

func (s *Sequence) apply(mv *chess.Move, pos *chess.Position, st *sequenceState, ply int) sequenceFlow {
	el := s.elements[st.index]

	if el.rule != nil {
		if el.rule.apply(mv, pos) {
			if st.collectPlies {
				st.plies = append(st.plies, ply)
			}
			st.index++
			if st.index == len(s.elements) {
				return seqFullMatch
			}
		}
		return seqContinue
	}

	if st.streakState == nil {
		st.streakState = el.streak.newState()
	}
	switch el.streak.apply(mv, pos, st.streakState) {
	case streakFullMatch:
		st.index++
		n := len(el.streak.rules)
		if st.collectPlies {
			for p := ply + 1 - n; p <= ply; p++ {
				st.plies = append(st.plies, p)
			}
		}
		st.streakState = nil
		if st.index == len(s.elements) {
			return seqFullMatch
		}
		return seqContinue
	case streakNeverMatch:
		return seqNeverMatch
	default:
		return seqContinue
	}
}
