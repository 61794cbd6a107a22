package completion

import (
	"strings"

	"dcd-complete/src/internal/errors"
)

type identifierRecord struct {
	name  string
	kind  KindCode
	label string
}

// InterpretIdentifiers turns name<TAB>kind lines into candidates whose kind
// labels share one column. Backend order is kept. Any malformed line fails the
// whole response.
func InterpretIdentifiers(lines []string) ([]Candidate, error) {
	records := make([]identifierRecord, 0, len(lines))
	longest := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, errors.NewMalformedRecordError(line, "expected name<TAB>kind")
		}

		kind, ok := ParseKindCode(fields[1])
		if !ok {
			return nil, errors.NewMalformedRecordError(line, "kind must be a single character")
		}
		if kind == InternalKind {
			continue
		}

		label, ok := kind.Label()
		if !ok {
			return nil, errors.NewMalformedRecordError(line, "unknown kind code "+kind.String())
		}

		if len(label) > longest {
			longest = len(label)
		}
		records = append(records, identifierRecord{name: fields[0], kind: kind, label: label})
	}

	out := make([]Candidate, 0, len(records))
	for _, r := range records {
		out = append(out, Candidate{
			InsertText:            r.name,
			DisplayLabel:          padRight(r.label, longest+1) + r.name,
			Detail:                r.label,
			AllowDuplicateDisplay: true,
			Kind:                  r.kind,
		})
	}
	return out, nil
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
