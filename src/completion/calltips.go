package completion

import (
	"strings"
)

// InterpretCalltips produces one candidate per signature line. The insert text is
// the parameter names of the signature, the label and detail the signature itself.
func InterpretCalltips(lines []string) []Candidate {
	out := make([]Candidate, 0, len(lines))
	for _, sig := range lines {
		if strings.TrimSpace(sig) == "" {
			continue
		}
		out = append(out, Candidate{
			InsertText:   ParameterNames(sig),
			DisplayLabel: sig,
			Detail:       sig,
		})
	}
	return out
}

// ParameterNames extracts the names from the outermost-right parameter list of a
// signature such as "void foo(int x, string y)" and joins them with spaces.
//
// The list is the text between the last '(' and the last ')'; tokens alternate
// type, name. Default values or types containing spaces or parentheses are not
// understood.
func ParameterNames(decl string) string {
	open := strings.LastIndexByte(decl, '(')
	closing := strings.LastIndexByte(decl, ')')
	if open < 0 || closing < 0 || closing < open {
		return ""
	}

	tokens := strings.FieldsFunc(decl[open+1:closing], func(r rune) bool {
		return r == ' ' || r == ','
	})

	names := make([]string, 0, len(tokens)/2)
	for i := 1; i < len(tokens); i += 2 {
		names = append(names, tokens[i])
	}
	return strings.Join(names, " ")
}
