package completion

import (
	"strings"

	"dcd-complete/src/internal/constants"
)

// Result is the interpreted client response
type Result struct {
	Mode       Mode
	Candidates []Candidate
}

// Interpret routes a raw client response on its first line. An empty response
// or an unknown mode tag is an empty result, not an error.
func Interpret(raw []byte) (*Result, error) {
	lines := splitLines(string(raw))
	if len(lines) == 0 {
		return &Result{Mode: ModeNone, Candidates: []Candidate{}}, nil
	}

	switch strings.TrimSpace(lines[0]) {
	case constants.ModeTagIdentifiers:
		cands, err := InterpretIdentifiers(lines[1:])
		if err != nil {
			return nil, err
		}
		return &Result{Mode: ModeIdentifiers, Candidates: cands}, nil
	case constants.ModeTagCalltips:
		return &Result{Mode: ModeCalltips, Candidates: InterpretCalltips(lines[1:])}, nil
	default:
		return &Result{Mode: ModeNone, Candidates: []Candidate{}}, nil
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
