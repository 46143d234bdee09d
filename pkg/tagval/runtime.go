package tagval

import (
	"regexp"
	"strings"
)

// Context carries the extraction-time surroundings a condition function
// may consult when gating processor selection.
type Context struct {
	// Make and Model identify the producing device, when known.
	Make  string
	Model string
	// Fields holds any other sibling values addressed by name.
	Fields map[string]Value
}

// UnimplementedCall is the fallback target emitted for an
// external-namespace call whose name is outside the known catalog.
// It executes without failure and leaves the input unchanged; the
// compile step records the name for coverage auditing.
func UnimplementedCall(name string, v Value) Value {
	_ = name
	return v
}

// Translate flags.
const (
	// TrDelete removes characters of the search set that have no
	// counterpart in the replacement set.
	TrDelete = 1 << iota
	// TrComplement matches the characters not in the search set.
	TrComplement
)

// Substitute applies a compiled match-and-replace to the string form of
// a value. The pattern arrives with its flags already folded in (the
// generator translates case-insensitivity to a (?i) prefix); global
// selects all-occurrences replacement.
func Substitute(s string, pattern *regexp.Regexp, replacement string, global bool) string {
	if global {
		return pattern.ReplaceAllString(s, replacement)
	}
	loc := pattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var sb strings.Builder
	sb.WriteString(s[:loc[0]])
	sb.Write(pattern.ExpandString(nil, replacement, s, loc))
	sb.WriteString(s[loc[1]:])
	return sb.String()
}

// TranslateChars remaps or filters the characters of s: each character
// of the search set maps to the same-position character of the replace
// set. A shorter replace set repeats its last character, the way the
// modeled language does.
func TranslateChars(s, search, replace string, flags int) string {
	searchSet := expandRanges(search)
	replaceSet := expandRanges(replace)

	inSearch := func(r rune) (int, bool) {
		for i, c := range searchSet {
			if c == r {
				return i, true
			}
		}
		return 0, false
	}

	var sb strings.Builder
	for _, r := range s {
		i, ok := inSearch(r)
		if flags&TrComplement != 0 {
			ok = !ok
			i = len(replaceSet) // complement always maps to the last character
		}
		if !ok {
			sb.WriteRune(r)
			continue
		}
		if i >= len(replaceSet) {
			if flags&TrDelete != 0 || len(replaceSet) == 0 {
				continue
			}
			i = len(replaceSet) - 1
		}
		sb.WriteRune(replaceSet[i])
	}
	return sb.String()
}

// expandRanges expands a-z style ranges into the full rune set.
func expandRanges(set string) []rune {
	runes := []rune(set)
	var out []rune
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] >= runes[i] {
			for r := runes[i]; r <= runes[i+2]; r++ {
				out = append(out, r)
			}
			i += 2
			continue
		}
		out = append(out, runes[i])
	}
	return out
}
