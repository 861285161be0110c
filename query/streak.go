package query

import "github.com/corentings/chess/v2"

// Streak matches a contiguous run: rules[0] must match some ply, and
// every following rule must match the immediately next ply. A later
// rule failing doesn't discard an earlier partial match outright — the
// run may still restart at any ply still in progress, tracked by
// checkIndex the same way scoutfish's Streak walks its candidates
// high-to-low each ply.
type Streak struct {
	rules []Rule
}

func streakFromRaw(raws []rawRule) (*Streak, error) {
	rules := make([]Rule, 0, len(raws))
	for i := range raws {
		r, err := ruleFromRaw(&raws[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	return &Streak{rules: rules}, nil
}

type streakFlow int

const (
	streakContinue streakFlow = iota
	streakFullMatch
	streakNeverMatch
)

// streakState tracks, for each rule index, whether a run currently in
// progress has matched up through that index. checkIndex[0] is never
// cleared: a streak may always restart at the first rule.
type streakState struct {
	checkIndex []bool
}

func (s *Streak) newState() *streakState {
	return &streakState{checkIndex: make([]bool, len(s.rules))}
}

// apply advances every in-progress run by one ply. Candidates are
// scanned from the highest index down to 0 so that a rule matching
// both "continue run i" and "start a fresh run at 0" doesn't let the
// fresh start's forward-propagation clobber the same ply's check of
// run i.
func (s *Streak) apply(mv *chess.Move, pos *chess.Position, st *streakState) streakFlow {
	n := len(s.rules)
	if n == 0 {
		return streakFullMatch
	}

	for i := n - 1; i >= 0; i-- {
		if !st.checkIndex[i] && i != 0 {
			continue
		}
		if s.rules[i].apply(mv, pos) {
			if i == n-1 {
				return streakFullMatch
			}
			st.checkIndex[i+1] = true
			if i != 0 {
				st.checkIndex[i] = false
			}
		} else if i != 0 {
			st.checkIndex[i] = false
		}
	}
	return streakContinue
}
