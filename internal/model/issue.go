package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIssue is returned for identifiers that are not of the form
// PROJECT-123.
var ErrInvalidIssue = errors.New("invalid issue id")

var issuePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)

// Issue is a tracker ticket that time is booked on.
type Issue struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	// DefaultAction describes work attributed implicitly to this issue.
	DefaultAction string `json:"default_action,omitempty"`
}

// ParseIssue validates and upper-cases an issue id such as "abc-12".
func ParseIssue(id string) (Issue, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if !issuePattern.MatchString(id) {
		return Issue{}, fmt.Errorf("%w: %q", ErrInvalidIssue, id)
	}
	return Issue{ID: id}, nil
}

// MustIssue is ParseIssue for literals; it panics on invalid input.
func MustIssue(id string) Issue {
	i, err := ParseIssue(id)
	if err != nil {
		panic(err)
	}
	return i
}

// Location is where a day's work takes place.
type Location string

const (
	Office Location = "office"
	Home   Location = "home"
)

// ParseLocation maps the short forms "o" and "h" to Office and Home and
// keeps anything else as a free-form location.
func ParseLocation(s string) Location {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "o", "office":
		return Office
	case "h", "home":
		return Home
	default:
		return Location(strings.TrimSpace(s))
	}
}
