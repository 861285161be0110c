package query

import (
	"bytes"
	"encoding/json"
)

// stringOrSlice unmarshals either a single JSON string or an array of
// strings, mirroring the untagged single/multiple union the list-valued
// rule keys accept.
type stringOrSlice struct {
	values []string
}

func (s *stringOrSlice) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.values = []string{single}
		return nil
	}
	var multi []string
	if err := json.Unmarshal(data, &multi); err != nil {
		return err
	}
	s.values = multi
	return nil
}

// rawRule is the JSON shape of a single rule object. Every recognised
// key is optional; any other key is a parse error (enforced by
// decodeStrict's DisallowUnknownFields).
type rawRule struct {
	SubFen    *stringOrSlice `json:"sub-fen,omitempty"`
	Material  *stringOrSlice `json:"material,omitempty"`
	Imbalance *stringOrSlice `json:"imbalance,omitempty"`
	WhiteMove *stringOrSlice `json:"white-move,omitempty"`
	BlackMove *stringOrSlice `json:"black-move,omitempty"`
	Moved     *string        `json:"moved,omitempty"`
	Captured  *string        `json:"captured,omitempty"`
	Stm       *string        `json:"stm,omitempty"`
	Pass      *string        `json:"pass,omitempty"`
}

type rawStreak struct {
	Streak []rawRule `json:"streak"`
}

type rawSequence struct {
	Sequence []json.RawMessage `json:"sequence"`
}

// decodeStrict decodes data into v, rejecting any JSON object key v
// doesn't declare — the Go equivalent of serde's deny_unknown_fields.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseRule parses one rule object (including an element of a sequence
// or streak list).
func parseRule(data []byte) (*Rule, error) {
	var rr rawRule
	if err := decodeStrict(data, &rr); err != nil {
		return nil, newParseError(InvalidSyntaxOrStructure, "%v", err)
	}
	return ruleFromRaw(&rr)
}

// parseSequenceElement parses one element of a "sequence" list: either a
// plain rule object or a nested {"streak": [...]}.
func parseSequenceElement(data []byte) (*SequenceElement, error) {
	var rs rawStreak
	if err := decodeStrict(data, &rs); err == nil {
		streak, err := streakFromRaw(rs.Streak)
		if err != nil {
			return nil, err
		}
		return &SequenceElement{streak: streak}, nil
	}
	rule, err := parseRule(data)
	if err != nil {
		return nil, err
	}
	return &SequenceElement{rule: rule}, nil
}

// Parse parses a top-level query document: a bare rule object, a
// {"sequence": [...]}, or a {"streak": [...]}.
func Parse(data []byte) (*Query, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, newParseError(InvalidSyntaxOrStructure, "%v", err)
	}

	if _, ok := keys["sequence"]; ok {
		var rs rawSequence
		if err := decodeStrict(data, &rs); err != nil {
			return nil, newParseError(InvalidSyntaxOrStructure, "%v", err)
		}
		elements := make([]SequenceElement, 0, len(rs.Sequence))
		for _, raw := range rs.Sequence {
			el, err := parseSequenceElement(raw)
			if err != nil {
				return nil, err
			}
			elements = append(elements, *el)
		}
		return &Query{sequence: &Sequence{elements: elements}}, nil
	}

	if _, ok := keys["streak"]; ok {
		var rs rawStreak
		if err := decodeStrict(data, &rs); err != nil {
			return nil, newParseError(InvalidSyntaxOrStructure, "%v", err)
		}
		streak, err := streakFromRaw(rs.Streak)
		if err != nil {
			return nil, err
		}
		return &Query{streak: streak}, nil
	}

	rule, err := parseRule(data)
	if err != nil {
		return nil, err
	}
	return &Query{rule: rule}, nil
}
