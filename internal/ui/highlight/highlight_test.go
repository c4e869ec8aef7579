package highlight

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestSQLKeepsText(t *testing.T) {
	src := "SELECT id, count() AS cnt\nFROM events\nGROUP BY id"

	out := SQL(src, "")

	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, src, strings.TrimRight(ansi.ReplaceAllString(out, ""), "\n"))
}

func TestSQLEmpty(t *testing.T) {
	assert.Empty(t, SQL("", "monokai"))
}
