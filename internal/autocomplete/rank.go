package autocomplete

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// MaxResultsCeiling is the hard upper bound on returned candidates.
const MaxResultsCeiling = 300

const (
	scoreExact       = 100
	scorePrefix      = 80
	scoreAfterDot    = 60
	scoreAfterSpace  = 50
	scoreSubstring   = 40
	scoreSubsequence = 10
	scoreSubseqCap   = scoreSubstring - 1
	scoreNoMatch     = -1
)

// fuzzyScore rates label against the typed partial, case-insensitively.
// It returns scoreNoMatch when partial is not even a subsequence of label.
func fuzzyScore(label, partial string) int {
	if partial == "" {
		return 1
	}
	l := strings.ToLower(label)
	p := strings.ToLower(partial)

	switch {
	case l == p:
		return scoreExact
	case strings.HasPrefix(l, p):
		return scorePrefix
	case strings.Contains(l, "."+p):
		return scoreAfterDot
	case strings.Contains(l, " "+p):
		return scoreAfterSpace
	case strings.Contains(l, p):
		return scoreSubstring
	}
	return subsequenceScore(l, p)
}

// subsequenceScore rates a scattered match: a base score plus 3 for every
// matched character starting a token and 1 for any other, kept below the
// substring tier.
func subsequenceScore(label, partial string) int {
	matches := fuzzy.Find(partial, []string{label})
	if len(matches) == 0 {
		return scoreNoMatch
	}
	score := scoreSubsequence
	for _, i := range matches[0].MatchedIndexes {
		prev, _ := utf8.DecodeLastRuneInString(label[:i])
		if i == 0 || isTokenBreak(prev) {
			score += 3
		} else {
			score++
		}
	}
	return min(score, scoreSubseqCap)
}

func isTokenBreak(r rune) bool {
	return r == '.' || r == '_' || unicode.IsSpace(r)
}

type candidateKey struct {
	label  string
	kind   Kind
	detail string
}

type scored struct {
	Candidate
	score int
}

// rank scores, dedups, orders and truncates raw candidates.
func rank(cands []Candidate, partial string, limit int) []Candidate {
	if limit <= 0 || limit > MaxResultsCeiling {
		limit = MaxResultsCeiling
	}

	seen := make(map[candidateKey]bool, len(cands))
	kept := make([]scored, 0, len(cands))
	for _, c := range cands {
		key := candidateKey{c.Label, c.Kind, c.Detail}
		if seen[key] {
			continue
		}
		seen[key] = true

		s := fuzzyScore(c.Label, partial)
		if s == scoreNoMatch {
			continue
		}
		kept = append(kept, scored{Candidate: c, score: s + c.Boost})
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]Candidate, len(kept))
	for i, s := range kept {
		out[i] = s.Candidate
	}
	return out
}
