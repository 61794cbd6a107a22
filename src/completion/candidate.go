package completion

// Candidate is one entry of the completion popup
type Candidate struct {
	// InsertText is what the editor inserts on acceptance
	InsertText string `json:"word"`
	// DisplayLabel is the popup text: an aligned kind column then the name, or the raw signature
	DisplayLabel string `json:"abbr"`
	Detail       string `json:"info"`
	// AllowDuplicateDisplay tells the host not to fold candidates with equal text
	AllowDuplicateDisplay bool `json:"dup"`
	// Kind is zero for calltips
	Kind KindCode `json:"-"`
}

// Mode identifies the response format that produced a result
type Mode string

const (
	ModeNone        Mode = ""
	ModeIdentifiers Mode = "identifiers"
	ModeCalltips    Mode = "calltips"
)
