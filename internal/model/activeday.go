package model

import (
	"encoding/json"

	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// ActiveDay is the record of one calendar day: where it was worked, the
// issue carried over from an earlier day, and the recorded actions.
type ActiveDay struct {
	Day          Day
	MainLocation Location
	// ActiveIssue was started on an earlier day and never ended.
	ActiveIssue *Issue

	actions *ActionSet
}

// NewActiveDay returns an empty day.
func NewActiveDay(day Day, loc Location, active *Issue) *ActiveDay {
	return &ActiveDay{
		Day:          day,
		MainLocation: loc,
		ActiveIssue:  active,
		actions:      NewActionSet(),
	}
}

// AddAction inserts a and reports false when an equal action already exists.
func (d *ActiveDay) AddAction(a Action) bool {
	return d.set().Insert(a)
}

func (d *ActiveDay) RemoveAction(a Action) bool {
	return d.set().Remove(a)
}

// Actions returns the recorded actions in order.
func (d *ActiveDay) Actions() []Action {
	return d.set().Items()
}

// ActionSet exposes the underlying ordered set.
func (d *ActiveDay) ActionSet() *ActionSet {
	return d.set()
}

func (d *ActiveDay) set() *ActionSet {
	if d.actions == nil {
		d.actions = NewActionSet()
	}
	return d.actions
}

// Clone returns a deep copy of d.
func (d *ActiveDay) Clone() *ActiveDay {
	c := *d
	if d.ActiveIssue != nil {
		issue := *d.ActiveIssue
		c.ActiveIssue = &issue
	}
	c.actions = d.set().Clone()
	return &c
}

// CurrentIssue returns the issue that is active at now: the carried
// ActiveIssue, replaced by each WorkStart up to now and cleared by a
// WorkEnd for the issue that is active at that point.
func (d *ActiveDay) CurrentIssue(now timecalc.Time) *Issue {
	current := d.ActiveIssue
	d.set().Ascend(func(a Action) bool {
		start, _, _ := a.Times()
		if start.After(now) {
			return false
		}
		switch v := a.(type) {
		case WorkStart:
			issue := v.Started()
			current = &issue
		case WorkEnd:
			if current != nil && current.ID == v.Issue.ID {
				current = nil
			}
		}
		return true
	})
	if current == nil {
		return nil
	}
	issue := *current
	return &issue
}

// LastActionEnd returns the latest end (or start, for point actions) that
// is not after now.
func (d *ActiveDay) LastActionEnd(now timecalc.Time) (timecalc.Time, bool) {
	var last timecalc.Time
	found := false
	d.set().Ascend(func(a Action) bool {
		t := EndOrStart(a)
		if !t.After(now) && (!found || t.After(last)) {
			last, found = t, true
		}
		return true
	})
	return last, found
}

type activeDayJSON struct {
	Day          Day        `json:"day"`
	MainLocation Location   `json:"main_location"`
	ActiveIssue  *Issue     `json:"active_issue,omitempty"`
	Actions      *ActionSet `json:"actions"`
}

func (d *ActiveDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(activeDayJSON{
		Day:          d.Day,
		MainLocation: d.MainLocation,
		ActiveIssue:  d.ActiveIssue,
		Actions:      d.set(),
	})
}

func (d *ActiveDay) UnmarshalJSON(b []byte) error {
	v := activeDayJSON{Actions: NewActionSet()}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	d.Day = v.Day
	d.MainLocation = v.MainLocation
	d.ActiveIssue = v.ActiveIssue
	d.actions = v.Actions
	return nil
}
