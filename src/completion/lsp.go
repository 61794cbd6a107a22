package completion

import (
	"fmt"

	"go.lsp.dev/protocol"
)

// ToCompletionItems converts candidates to LSP completion items. SortText encodes
// the backend order so clients that sort by it keep that order.
func ToCompletionItems(cands []Candidate) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(cands))
	width := len(fmt.Sprint(len(cands)))
	for i, c := range cands {
		item := protocol.CompletionItem{
			InsertText:       c.InsertText,
			InsertTextFormat: protocol.InsertTextFormatPlainText,
			Detail:           c.Detail,
			FilterText:       c.InsertText,
			SortText:         fmt.Sprintf("%0*d", width, i),
		}
		if c.Kind == 0 {
			item.Label = c.DisplayLabel
			item.Kind = protocol.CompletionItemKindFunction
		} else {
			item.Label = c.InsertText
			item.Kind = c.Kind.LSPKind()
		}
		items = append(items, item)
	}
	return items
}

// ToCompletionList wraps ToCompletionItems in a complete list
func ToCompletionList(cands []Candidate) protocol.CompletionList {
	return protocol.CompletionList{
		IsIncomplete: false,
		Items:        ToCompletionItems(cands),
	}
}
