package model

import (
	"fmt"

	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// Kind identifies an Action variant. The numeric order is the tie-break
// precedence used by Compare.
type Kind int

const (
	KindWork Kind = iota
	KindWorkEvent
	KindWorkStart
	KindWorkEnd
	KindDayStart
	KindDayEnd
	KindDayOff
	KindZA
	KindVacation
	KindSick
	KindDoctor
	KindCurrentWork
)

var kindNames = [...]string{
	KindWork:        "work",
	KindWorkEvent:   "work_event",
	KindWorkStart:   "work_start",
	KindWorkEnd:     "work_end",
	KindDayStart:    "day_start",
	KindDayEnd:      "day_end",
	KindDayOff:      "day_off",
	KindZA:          "za",
	KindVacation:    "vacation",
	KindSick:        "sick",
	KindDoctor:      "doctor",
	KindCurrentWork: "current_work",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action type %q", b)
}

// Action is one recorded event of a day. The set of implementations is
// closed: only the types in this package satisfy it.
type Action interface {
	// Times returns the start of the action and, when hasEnd is set, its end.
	Times() (start, end timecalc.Time, hasEnd bool)
	Kind() Kind
	fmt.Stringer

	action()
}

// Work is an explicitly booked interval.
type Work struct {
	Start       timecalc.Time `json:"start"`
	End         timecalc.Time `json:"end"`
	Issue       Issue         `json:"issue"`
	Description string        `json:"description"`
	// ExternalID links entries imported from a calendar to their source
	// event. It does not take part in ordering.
	ExternalID string `json:"external_id,omitempty"`
}

// WorkEvent is something done on an issue at a point in time.
type WorkEvent struct {
	At          timecalc.Time `json:"at"`
	Issue       Issue         `json:"issue"`
	Description string        `json:"description"`
}

// WorkStart makes Issue the active issue from At on.
type WorkStart struct {
	At          timecalc.Time `json:"at"`
	Issue       Issue         `json:"issue"`
	Description string        `json:"description"`
}

// Started returns the issue that becomes active. The issue's own default
// action wins over the description typed at the start.
func (a WorkStart) Started() Issue {
	issue := a.Issue
	if issue.DefaultAction == "" {
		issue.DefaultAction = a.Description
	}
	return issue
}

// WorkEnd stops attributing time to Issue.
type WorkEnd struct {
	At    timecalc.Time `json:"at"`
	Issue Issue         `json:"issue"`
}

// DayStart opens an on-duty span.
type DayStart struct {
	At       timecalc.Time `json:"at"`
	Location Location      `json:"location,omitempty"`
}

// DayEnd closes the open on-duty span.
type DayEnd struct {
	At timecalc.Time `json:"at"`
}

type DayOff struct{}

type Vacation struct{}

type Sick struct{}

// ZA is time off in lieu of overtime.
type ZA struct {
	Start timecalc.Time `json:"start"`
	End   timecalc.Time `json:"end"`
}

type Doctor struct {
	Start timecalc.Time `json:"start"`
	End   timecalc.Time `json:"end"`
}

// CurrentWork marks what is being worked on right now, without an end.
type CurrentWork struct {
	Start       timecalc.Time `json:"start"`
	Issue       Issue         `json:"issue"`
	Description string        `json:"description"`
}

func closed(start, end timecalc.Time) (timecalc.Time, timecalc.Time, bool) {
	return start, end, true
}

func open(start timecalc.Time) (timecalc.Time, timecalc.Time, bool) {
	return start, timecalc.Time{}, false
}

func (a Work) Times() (timecalc.Time, timecalc.Time, bool)        { return closed(a.Start, a.End) }
func (a WorkEvent) Times() (timecalc.Time, timecalc.Time, bool)   { return open(a.At) }
func (a WorkStart) Times() (timecalc.Time, timecalc.Time, bool)   { return open(a.At) }
func (a WorkEnd) Times() (timecalc.Time, timecalc.Time, bool)     { return open(a.At) }
func (a DayStart) Times() (timecalc.Time, timecalc.Time, bool)    { return open(a.At) }
func (a DayEnd) Times() (timecalc.Time, timecalc.Time, bool)      { return open(a.At) }
func (DayOff) Times() (timecalc.Time, timecalc.Time, bool)        { return open(timecalc.Midnight) }
func (Vacation) Times() (timecalc.Time, timecalc.Time, bool)      { return open(timecalc.Midnight) }
func (Sick) Times() (timecalc.Time, timecalc.Time, bool)          { return open(timecalc.Midnight) }
func (a ZA) Times() (timecalc.Time, timecalc.Time, bool)          { return closed(a.Start, a.End) }
func (a Doctor) Times() (timecalc.Time, timecalc.Time, bool)      { return closed(a.Start, a.End) }
func (a CurrentWork) Times() (timecalc.Time, timecalc.Time, bool) { return open(a.Start) }

func (Work) Kind() Kind        { return KindWork }
func (WorkEvent) Kind() Kind   { return KindWorkEvent }
func (WorkStart) Kind() Kind   { return KindWorkStart }
func (WorkEnd) Kind() Kind     { return KindWorkEnd }
func (DayStart) Kind() Kind    { return KindDayStart }
func (DayEnd) Kind() Kind      { return KindDayEnd }
func (DayOff) Kind() Kind      { return KindDayOff }
func (ZA) Kind() Kind          { return KindZA }
func (Vacation) Kind() Kind    { return KindVacation }
func (Sick) Kind() Kind        { return KindSick }
func (Doctor) Kind() Kind      { return KindDoctor }
func (CurrentWork) Kind() Kind { return KindCurrentWork }

func (Work) action()        {}
func (WorkEvent) action()   {}
func (WorkStart) action()   {}
func (WorkEnd) action()     {}
func (DayStart) action()    {}
func (DayEnd) action()      {}
func (DayOff) action()      {}
func (ZA) action()          {}
func (Vacation) action()    {}
func (Sick) action()        {}
func (Doctor) action()      {}
func (CurrentWork) action() {}

func (a Work) String() string {
	return fmt.Sprintf("%s-%s %s %s", a.Start, a.End, a.Issue.ID, a.Description)
}

func (a WorkEvent) String() string {
	return fmt.Sprintf("%s event %s %s", a.At, a.Issue.ID, a.Description)
}

func (a WorkStart) String() string {
	return fmt.Sprintf("%s start %s %s", a.At, a.Issue.ID, a.Description)
}

func (a WorkEnd) String() string { return fmt.Sprintf("%s end %s", a.At, a.Issue.ID) }

func (a DayStart) String() string {
	if a.Location == "" {
		return fmt.Sprintf("%s day start", a.At)
	}
	return fmt.Sprintf("%s day start (%s)", a.At, a.Location)
}

func (a DayEnd) String() string   { return fmt.Sprintf("%s day end", a.At) }
func (DayOff) String() string     { return "day off" }
func (Vacation) String() string   { return "vacation" }
func (Sick) String() string       { return "sick" }
func (a ZA) String() string       { return fmt.Sprintf("%s-%s ZA", a.Start, a.End) }
func (a Doctor) String() string   { return fmt.Sprintf("%s-%s doctor", a.Start, a.End) }

func (a CurrentWork) String() string {
	return fmt.Sprintf("%s- %s %s", a.Start, a.Issue.ID, a.Description)
}

// Compare orders actions by start, then by end with a missing end first,
// then by Kind. Two actions comparing equal are the same set element.
func Compare(a, b Action) int {
	as, ae, aok := a.Times()
	bs, be, bok := b.Times()
	if c := as.Compare(bs); c != 0 {
		return c
	}
	switch {
	case !aok && bok:
		return -1
	case aok && !bok:
		return 1
	case aok && bok:
		if c := ae.Compare(be); c != 0 {
			return c
		}
	}
	switch ak, bk := a.Kind(), b.Kind(); {
	case ak < bk:
		return -1
	case ak > bk:
		return 1
	}
	return 0
}

// EndOrStart returns the end of a closed action and the start of an open one.
func EndOrStart(a Action) timecalc.Time {
	start, end, ok := a.Times()
	if ok {
		return end
	}
	return start
}
