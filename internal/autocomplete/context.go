package autocomplete

import (
	"regexp"
	"unicode/utf8"
)

// ContextClass is the syntactic position of the cursor
type ContextClass int

const (
	ContextDefault ContextClass = iota
	ContextDot
	ContextTable
	ContextColumn
	ContextFunction
)

func (c ContextClass) String() string {
	switch c {
	case ContextDot:
		return "dot"
	case ContextTable:
		return "table"
	case ContextColumn:
		return "column"
	case ContextFunction:
		return "function"
	default:
		return "default"
	}
}

// DefaultContextWindow bounds how much text before the cursor is examined.
const DefaultContextWindow = 1000

// Rules in priority order. dot must precede table: "FROM db." satisfies both.
var (
	dotRe      = regexp.MustCompile(`(?:(` + identPat + `)\.)?(` + identPat + `)\.(` + partialPat + `)$`)
	tableRe    = regexp.MustCompile(`(?i)\b(?:FROM|JOIN|INTO|UPDATE|TABLE|DATABASE)\s+(` + partialPat + `)$`)
	columnRe   = regexp.MustCompile(`(?i)\b(?:SELECT|WHERE|ORDER\s+BY|GROUP\s+BY|HAVING|AND|OR|ON|USING|SET|WITH|BY)\s+(` + partialPat + `)$`)
	functionRe = regexp.MustCompile(`(` + bareIdent + `)\(\s*(` + partialPat + `)$`)
	// partialRe finds the token being typed; the preceding character must not
	// extend it, so a closing quote never starts a partial.
	partialRe = regexp.MustCompile("(?:^|[^\\p{L}\\p{N}_$\"`\\[\\]])(" + partialPat + ")$")
)

// Classification is the classifier's verdict about the text before the cursor.
type Classification struct {
	Class ContextClass
	// Partial is the raw token being typed, quotes included.
	Partial string
	// Qualifier is the normalized identifier left of the final dot (dot).
	Qualifier string
	// Database is the normalized database prefix: "a" in "a.b." (dot). A
	// dotted table name after FROM classifies as dot, so table never sets it.
	Database string
	// Function is the name of the call the cursor is inside (function).
	Function string
}

// Classify assigns a context class to before, the buffer text ending at the
// cursor. Only the last window bytes are examined; window <= 0 uses the default.
func Classify(before string, window int) Classification {
	before = tail(before, window)

	if m := dotRe.FindStringSubmatch(before); m != nil {
		return Classification{
			Class:     ContextDot,
			Database:  normalizeIdent(m[1]),
			Qualifier: normalizeIdent(m[2]),
			Partial:   m[3],
		}
	}
	if m := tableRe.FindStringSubmatch(before); m != nil {
		return Classification{Class: ContextTable, Partial: m[1]}
	}
	if m := columnRe.FindStringSubmatch(before); m != nil {
		return Classification{Class: ContextColumn, Partial: m[1]}
	}
	if m := functionRe.FindStringSubmatch(before); m != nil {
		return Classification{Class: ContextFunction, Function: m[1], Partial: m[2]}
	}
	return Classification{Class: ContextDefault, Partial: partialToken(before)}
}

// partialToken returns the token being typed at the end of before, or "".
func partialToken(before string) string {
	if m := partialRe.FindStringSubmatch(before); m != nil {
		return m[1]
	}
	return ""
}

// tail returns the last n bytes of s, moved forward to a rune boundary.
func tail(s string, n int) string {
	if n <= 0 {
		n = DefaultContextWindow
	}
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
