package autocomplete

// Kind tags what a candidate completes to
type Kind int

const (
	KindKeyword Kind = iota
	KindFunction
	KindDatabase
	KindTable
	KindColumn
	KindSnippet
)

var kindNames = [...]string{
	KindKeyword:  "keyword",
	KindFunction: "function",
	KindDatabase: "database",
	KindTable:    "table",
	KindColumn:   "column",
	KindSnippet:  "snippet",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Candidate is a single completion suggestion
type Candidate struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"` // column type and owner, owning database, ...
	Kind   Kind   `json:"kind"`
	Boost  int    `json:"boost"` // static relevance from the builder; higher wins
	// Apply is inserted instead of Label when set (multi-line snippets).
	Apply string `json:"apply,omitempty"`
}

// InsertText is what the host writes over [From, cursor).
func (c Candidate) InsertText() string {
	if c.Apply != "" {
		return c.Apply
	}
	return c.Label
}

// Builder-level relevance weights.
const (
	boostDotMember = 40

	boostAliasColumn = 30
	boostColumn      = 20

	boostFunctionCall   = 25
	boostFunctionColumn = 20

	boostTable          = 20
	boostQualifiedTable = 15
	boostTableDatabase  = 10

	boostDefaultSnippet        = 20
	boostDefaultFunction       = 18
	boostDefaultKeyword        = 16
	boostDefaultColumn         = 14
	boostDefaultTable          = 10
	boostDefaultQualifiedTable = 8
	boostDefaultDatabase       = 5
)
