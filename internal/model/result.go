package model

import (
	"strconv"
	"strings"
)

// Outcome is the classification of a free-text match result.
type Outcome int

const (
	OutcomeLoss Outcome = 0
	OutcomeWin  Outcome = 1
	OutcomeDraw Outcome = 2
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "W"
	case OutcomeDraw:
		return "D"
	default:
		return "L"
	}
}

// ClassifyResult maps a result string to an outcome by lowercase prefix.
// Anything that does not start with "win" or "draw", including an empty string, is a loss.
func ClassifyResult(result string) Outcome {
	r := strings.ToLower(result)
	switch {
	case strings.HasPrefix(r, "win"):
		return OutcomeWin
	case strings.HasPrefix(r, "draw"):
		return OutcomeDraw
	default:
		return OutcomeLoss
	}
}

// IsExactWin reports whether result is literally "win" ignoring case.
// Player win counts use this stricter rule; season tallies use ClassifyResult.
func IsExactWin(result string) bool {
	return strings.ToLower(result) == "win"
}

// ParsePoints converts a score field to an optional integer.
// Only a plain run of digits is accepted; anything else is absent.
func ParsePoints(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
