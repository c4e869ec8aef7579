// Package highlight renders SQL with terminal colors.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultStyle is used when no chroma style is configured.
const DefaultStyle = "nord"

// SQL returns src highlighted with the named chroma style for a 256-color
// terminal. Unknown styles fall back to chroma's default; on any formatter
// error src is returned unchanged.
func SQL(src, style string) string {
	if src == "" {
		return ""
	}
	if style == "" {
		style = DefaultStyle
	}
	var b strings.Builder
	if err := quick.Highlight(&b, src, "sql", "terminal256", style); err != nil {
		return src
	}
	return b.String()
}
