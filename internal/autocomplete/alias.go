package autocomplete

import (
	"regexp"
	"sort"
	"strings"
)

// Identifier patterns shared by the alias scan and the context classifier.
const (
	quotedIdent = `"[^"]*"|` + "`[^`]*`" + `|\[[^\]]*\]`
	bareIdent   = `[\p{L}_][\p{L}\p{N}_$]*`
	identPat    = `(?:` + quotedIdent + `|` + bareIdent + `)`
	// partialPat is a possibly unfinished identifier: an optional opening quote
	// and whatever identifier characters follow it.
	partialPat = "[\"`\\[]?[\\p{L}\\p{N}_$]*"
)

var (
	fromJoinRe = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+`)
	tableRefRe = regexp.MustCompile(`(?i)^(` + identPat + `(?:\.` + identPat + `)*)(?:\s+(?:AS\s+)?(` + identPat + `))?`)
	listSepRe  = regexp.MustCompile(`^\s*,\s*`)

	unquoter = strings.NewReplacer(`"`, "", "`", "", "[", "", "]", "")
)

// clauseWords can follow a table reference; they are never aliases.
var clauseWords = map[string]bool{
	"AS": true, "ON": true, "USING": true, "WHERE": true, "JOIN": true, "INNER": true,
	"LEFT": true, "RIGHT": true, "FULL": true, "OUTER": true, "CROSS": true, "NATURAL": true,
	"GROUP": true, "ORDER": true, "HAVING": true, "LIMIT": true, "OFFSET": true, "UNION": true,
	"EXCEPT": true, "INTERSECT": true, "WINDOW": true, "SET": true, "VALUES": true,
	"SELECT": true, "FROM": true, "PREWHERE": true, "FINAL": true, "SAMPLE": true,
	"ARRAY": true, "GLOBAL": true, "ANY": true, "ALL": true, "SEMI": true, "ANTI": true,
	"ASOF": true, "FORMAT": true, "SETTINGS": true, "QUALIFY": true, "LATERAL": true,
}

// TableRef is a table reference. An empty Database means unqualified: the
// table is looked up by name in every known database.
type TableRef struct {
	Database string
	Table    string
}

// ParseTableRef splits a normalized reference on dots.
func ParseTableRef(ref string) TableRef {
	parts := strings.Split(ref, ".")
	if len(parts) >= 2 {
		return TableRef{Database: parts[0], Table: parts[1]}
	}
	return TableRef{Table: parts[0]}
}

func (r TableRef) matches(o TableRef) bool {
	return strings.EqualFold(r.Database, o.Database) && strings.EqualFold(r.Table, o.Table)
}

// AliasMap maps an alias to the table it names.
type AliasMap map[string]TableRef

// Lookup finds an alias, exactly first and then case-insensitively.
func (m AliasMap) Lookup(alias string) (TableRef, bool) {
	if ref, ok := m[alias]; ok {
		return ref, true
	}
	for _, name := range m.names() {
		if strings.EqualFold(name, alias) {
			return m[name], true
		}
	}
	return TableRef{}, false
}

// AliasesOf returns the aliases bound to ref, sorted.
func (m AliasMap) AliasesOf(ref TableRef) []string {
	var out []string
	for _, name := range m.names() {
		if m[name].matches(ref) {
			out = append(out, name)
		}
	}
	return out
}

func (m AliasMap) names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tableMention is one FROM/JOIN reference and its alias, if any.
type tableMention struct {
	ref   string
	alias string
}

// scanTableMentions finds every FROM/JOIN reference in text, including comma
// separated FROM lists. Nesting is not tracked: a subquery's FROM counts too.
func scanTableMentions(text string) []tableMention {
	var out []tableMention
	for _, loc := range fromJoinRe.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		for {
			m := tableRefRe.FindStringSubmatch(rest)
			if m == nil {
				break
			}
			mention := tableMention{ref: normalizeIdent(m[1])}
			if m[2] != "" && !clauseWords[strings.ToUpper(m[2])] {
				mention.alias = normalizeIdent(m[2])
			}
			if mention.ref != "" {
				out = append(out, mention)
			}

			// A rejected alias is really the next clause; continue after the ref only.
			consumed := len(m[0])
			if m[2] != "" && mention.alias == "" {
				consumed = len(m[1])
			}
			rest = rest[consumed:]
			sep := listSepRe.FindString(rest)
			if sep == "" {
				break
			}
			rest = rest[len(sep):]
		}
	}
	return out
}

// BuildAliasMap records alias -> reference for every aliased FROM/JOIN
// reference. A later declaration of the same alias wins.
func BuildAliasMap(text string) AliasMap {
	aliases := make(AliasMap)
	for _, m := range scanTableMentions(text) {
		if m.alias != "" {
			aliases[m.alias] = ParseTableRef(m.ref)
		}
	}
	return aliases
}

// BuildReferencedTables lists every FROM/JOIN reference once, in first-seen order.
func BuildReferencedTables(text string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range scanTableMentions(text) {
		if !seen[m.ref] {
			seen[m.ref] = true
			refs = append(refs, m.ref)
		}
	}
	return refs
}

// normalizeIdent strips quoting characters and surrounding space.
func normalizeIdent(s string) string {
	return strings.TrimSpace(unquoter.Replace(s))
}
