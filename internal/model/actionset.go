package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/btree"
)

const actionSetDegree = 8

// ActionSet is an ordered set of actions keyed by Compare. Inserting an
// action that compares equal to a stored one keeps the stored one.
type ActionSet struct {
	tree *btree.BTreeG[Action]
}

func lessAction(a, b Action) bool { return Compare(a, b) < 0 }

// NewActionSet returns a set holding actions.
func NewActionSet(actions ...Action) *ActionSet {
	s := &ActionSet{tree: btree.NewG[Action](actionSetDegree, lessAction)}
	for _, a := range actions {
		s.Insert(a)
	}
	return s
}

// Insert adds a and reports whether it was stored. An action equal to an
// existing element is dropped.
func (s *ActionSet) Insert(a Action) bool {
	if s.tree.Has(a) {
		return false
	}
	s.tree.ReplaceOrInsert(a)
	return true
}

// Remove deletes the element equal to a and reports whether one existed.
func (s *ActionSet) Remove(a Action) bool {
	_, ok := s.tree.Delete(a)
	return ok
}

func (s *ActionSet) Has(a Action) bool { return s.tree.Has(a) }

func (s *ActionSet) Len() int { return s.tree.Len() }

// Items returns the elements in order.
func (s *ActionSet) Items() []Action {
	out := make([]Action, 0, s.tree.Len())
	s.tree.Ascend(func(a Action) bool {
		out = append(out, a)
		return true
	})
	return out
}

// At returns the i-th element in order.
func (s *ActionSet) At(i int) (Action, bool) {
	if i < 0 || i >= s.tree.Len() {
		return nil, false
	}
	var found Action
	n := 0
	s.tree.Ascend(func(a Action) bool {
		if n == i {
			found = a
			return false
		}
		n++
		return true
	})
	return found, true
}

// Ascend calls fn for each element in order until fn returns false.
func (s *ActionSet) Ascend(fn func(Action) bool) {
	s.tree.Ascend(btree.ItemIteratorG[Action](fn))
}

// Clone returns an independent copy. Actions are values, so the copy
// shares nothing mutable with s.
func (s *ActionSet) Clone() *ActionSet {
	return &ActionSet{tree: s.tree.Clone()}
}

func (s *ActionSet) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, s.Len())
	for _, a := range s.Items() {
		b, err := MarshalAction(a)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(raw)
}

func (s *ActionSet) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = *NewActionSet()
	for i, r := range raw {
		a, err := UnmarshalAction(r)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		s.Insert(a)
	}
	return nil
}

// MarshalAction encodes a as a JSON object carrying a "type" discriminator.
func MarshalAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(a.Kind())
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	return json.Marshal(fields)
}

// ErrInvalidAction is returned for stored actions without a known type.
var ErrInvalidAction = errors.New("invalid action")

// UnmarshalAction decodes an object written by MarshalAction.
func UnmarshalAction(b []byte) (Action, error) {
	var head struct {
		Type *Kind `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	if head.Type == nil {
		return nil, fmt.Errorf("%w: missing \"type\"", ErrInvalidAction)
	}
	switch *head.Type {
	case KindWork:
		return decode[Work](b)
	case KindWorkEvent:
		return decode[WorkEvent](b)
	case KindWorkStart:
		return decode[WorkStart](b)
	case KindWorkEnd:
		return decode[WorkEnd](b)
	case KindDayStart:
		return decode[DayStart](b)
	case KindDayEnd:
		return decode[DayEnd](b)
	case KindDayOff:
		return DayOff{}, nil
	case KindZA:
		return decode[ZA](b)
	case KindVacation:
		return Vacation{}, nil
	case KindSick:
		return Sick{}, nil
	case KindDoctor:
		return decode[Doctor](b)
	case KindCurrentWork:
		return decode[CurrentWork](b)
	}
	return nil, fmt.Errorf("%w: unknown type %v", ErrInvalidAction, *head.Type)
}

func decode[T Action](b []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
