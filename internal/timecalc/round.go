package timecalc

import (
	"fmt"
	"strings"
)

// RoundMode selects how a time or duration is snapped to a resolution.
type RoundMode int

const (
	RoundNone RoundMode = iota
	RoundNormal
	RoundUp
	RoundDown
	// RoundSatUp and RoundSatDown round like Up/Down but saturate to the
	// boundary of a Range instead of reporting an out-of-range time.
	RoundSatUp
	RoundSatDown
)

var roundModeNames = map[RoundMode]string{
	RoundNone:    "none",
	RoundNormal:  "normal",
	RoundUp:      "up",
	RoundDown:    "down",
	RoundSatUp:   "sat-up",
	RoundSatDown: "sat-down",
}

// IsSat reports whether m saturates instead of failing.
func (m RoundMode) IsSat() bool {
	return m == RoundSatUp || m == RoundSatDown
}

func (m RoundMode) String() string {
	if s, ok := roundModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("RoundMode(%d)", int(m))
}

// ParseRoundMode accepts the names produced by RoundMode.String.
func ParseRoundMode(s string) (RoundMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range roundModeNames {
		if name == s {
			return m, nil
		}
	}
	return RoundNone, fmt.Errorf("unknown round mode %q", s)
}

// roundMinutes snaps a non-negative minute count to a multiple of res.
func roundMinutes(minutes int, mode RoundMode, res int) int {
	if res <= 1 || mode == RoundNone {
		return minutes
	}
	rem := minutes % res
	down := minutes - rem
	switch mode {
	case RoundNormal:
		if rem <= res/2 {
			return down
		}
		return down + res
	case RoundDown, RoundSatDown:
		return down
	case RoundUp, RoundSatUp:
		if rem == 0 {
			return minutes
		}
		return down + res
	}
	return minutes
}
