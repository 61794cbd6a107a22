package completion

import (
	"go.lsp.dev/protocol"
)

// KindCode is the single-character symbol category DCD emits after a TAB
type KindCode byte

// InternalKind marks a type internal to DCD; such records are never shown.
const InternalKind KindCode = '*'

type kindInfo struct {
	label   string
	lspKind protocol.CompletionItemKind
}

var kinds = map[KindCode]kindInfo{
	'c': {"class", protocol.CompletionItemKindClass},
	'i': {"interface", protocol.CompletionItemKindInterface},
	's': {"struct", protocol.CompletionItemKindStruct},
	'u': {"union", protocol.CompletionItemKindStruct},
	'v': {"var", protocol.CompletionItemKindVariable},
	'm': {"var", protocol.CompletionItemKindField},
	'k': {"keyword", protocol.CompletionItemKindKeyword},
	'f': {"function", protocol.CompletionItemKindFunction},
	'g': {"enum", protocol.CompletionItemKindEnum},
	'e': {"enum", protocol.CompletionItemKindEnumMember},
	'P': {"package", protocol.CompletionItemKindModule},
	'M': {"module", protocol.CompletionItemKindModule},
	'a': {"array", protocol.CompletionItemKindVariable},
	'A': {"aarray", protocol.CompletionItemKindVariable},
	'l': {"alias", protocol.CompletionItemKindReference},
	't': {"template", protocol.CompletionItemKindTypeParameter},
	'T': {"mixin template", protocol.CompletionItemKindSnippet},
}

// Label returns the human readable name for k and whether k is known
func (k KindCode) Label() (string, bool) {
	info, ok := kinds[k]
	return info.label, ok
}

// LSPKind maps k to the closest LSP completion item kind
func (k KindCode) LSPKind() protocol.CompletionItemKind {
	if info, ok := kinds[k]; ok {
		return info.lspKind
	}
	return protocol.CompletionItemKindText
}

func (k KindCode) String() string {
	return string(rune(k))
}

// ParseKindCode converts the kind field of a record. The field must be exactly one byte.
func ParseKindCode(field string) (KindCode, bool) {
	if len(field) != 1 {
		return 0, false
	}
	return KindCode(field[0]), true
}
