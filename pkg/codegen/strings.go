package codegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tagforge/convgen/pkg/types"
)

// genConcat emits one formatted-string construction for a whole run of
// concatenations. The run is flattened first so nested fmt.Sprintf
// calls never appear: literals go straight into the format string and
// every non-literal fragment becomes a single %s placeholder.
func (g *Generator) genConcat(n *types.Node) (string, error) {
	var frags []*types.Node
	flattenConcat(n, &frags)

	var format strings.Builder
	var args []string
	for _, frag := range frags {
		if frag.Type == types.NodeString && !frag.Interp {
			format.WriteString(escapePercent(frag.StrValue))
			continue
		}
		if frag.Type == types.NodeString && frag.Interp {
			f, a, err := g.interpFragments(frag.StrValue)
			if err != nil {
				return "", err
			}
			format.WriteString(f)
			args = append(args, a...)
			continue
		}
		wrapped, err := g.genWrapped(frag)
		if err != nil {
			return "", err
		}
		format.WriteString("%s")
		args = append(args, "tagval.Text("+wrapped+")")
	}

	if len(args) == 0 {
		// Fully literal run; no formatting call needed.
		return strconv.Quote(unescapePercent(format.String())), nil
	}

	g.use("fmt")
	return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(format.String()), strings.Join(args, ", ")), nil
}

// flattenConcat appends the fragments of a concatenation run in source
// order.
func flattenConcat(n *types.Node, frags *[]*types.Node) {
	if n.Type == types.NodeBinary && n.Op == "." {
		flattenConcat(n.LHS, frags)
		flattenConcat(n.RHS, frags)
		return
	}
	*frags = append(*frags, n)
}

// genInterpolated emits the formatted-string construction for a string
// literal containing the input-variable marker.
func (g *Generator) genInterpolated(text string) (string, error) {
	format, args, err := g.interpFragments(text)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return strconv.Quote(unescapePercent(format)), nil
	}
	g.use("fmt")
	return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(format), strings.Join(args, ", ")), nil
}

// interpFragments splits interpolated literal text into a format string
// and its argument expressions: each $val / $val[N] occurrence becomes
// a %s placeholder printing the value's string form.
func (g *Generator) interpFragments(text string) (string, []string, error) {
	var format strings.Builder
	var args []string

	for len(text) > 0 {
		i := strings.Index(text, "$val")
		if i < 0 {
			format.WriteString(escapePercent(text))
			break
		}
		format.WriteString(escapePercent(text[:i]))
		rest := text[i+len("$val"):]

		if idx, width, ok := subscriptAt(rest); ok {
			format.WriteString("%s")
			args = append(args, fmt.Sprintf("tagval.Text(tagval.Index(val, %d))", idx))
			text = rest[width:]
			continue
		}

		format.WriteString("%s")
		args = append(args, "tagval.Text(val)")
		text = rest
	}

	return format.String(), args, nil
}

// subscriptAt reads a [N] subscript at the start of s.
func subscriptAt(s string) (index, width int, ok bool) {
	if len(s) < 3 || s[0] != '[' {
		return 0, 0, false
	}
	end := strings.IndexByte(s, ']')
	if end < 2 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[1:end])
	if err != nil {
		return 0, 0, false
	}
	return n, end + 1, true
}

// escapePercent protects literal text destined for a format string.
func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// unescapePercent undoes escapePercent for runs that turned out to be
// fully literal and skip the formatting call.
func unescapePercent(s string) string {
	return strings.ReplaceAll(s, "%%", "%")
}

// backrefPattern matches Perl-style $N backreferences in a replacement.
var backrefPattern = regexp.MustCompile(`\$(\d)`)

// genSubstitution compiles a pattern-substitution node into a
// match-and-replace on the string form of its target.
// Supported flags: i (case-insensitive), g (global).
func (g *Generator) genSubstitution(n *types.Node) (string, error) {
	if n.Target == nil {
		return "", types.NewError(types.ErrBadTree, "Substitution without a target", n.Position)
	}
	if n.Pattern == "" {
		return "", types.NewError(types.ErrMissingLiteral, "Substitution without a pattern", n.Position)
	}

	global := false
	pattern := n.Pattern
	for _, f := range n.Flags {
		switch f {
		case 'g':
			global = true
		case 'i':
			pattern = "(?i)" + pattern
		default:
			return "", types.NewError(types.ErrBadFlag, "Unsupported substitution flag "+string(f), n.Position)
		}
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return "", types.NewError(types.ErrBadFlag, "Pattern does not compile: "+err.Error(), n.Position)
	}

	// Perl-style $N backreferences become Go's ${N} form.
	replacement := backrefPattern.ReplaceAllString(n.Replacement, "$${$1}")

	target, err := g.genWrapped(n.Target)
	if err != nil {
		return "", err
	}

	g.use("regexp")
	return fmt.Sprintf("tagval.Str(tagval.Substitute(tagval.Text(%s), regexp.MustCompile(%s), %s, %v))",
		target, strconv.Quote(pattern), strconv.Quote(replacement), global), nil
}

// genTranslate compiles a character-mapping node into a filter/remap of
// the string form of its target.
// Supported flags: d (delete), c (complement).
func (g *Generator) genTranslate(n *types.Node) (string, error) {
	if n.Target == nil {
		return "", types.NewError(types.ErrBadTree, "Character mapping without a target", n.Position)
	}
	if n.Pattern == "" {
		return "", types.NewError(types.ErrMissingLiteral, "Character mapping without a search set", n.Position)
	}

	var flags []string
	for _, f := range n.Flags {
		switch f {
		case 'd':
			flags = append(flags, "tagval.TrDelete")
		case 'c':
			flags = append(flags, "tagval.TrComplement")
		default:
			return "", types.NewError(types.ErrBadFlag, "Unsupported mapping flag "+string(f), n.Position)
		}
	}
	flagExpr := "0"
	if len(flags) > 0 {
		flagExpr = strings.Join(flags, "|")
	}

	target, err := g.genWrapped(n.Target)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("tagval.Str(tagval.TranslateChars(tagval.Text(%s), %s, %s, %s))",
		target, strconv.Quote(n.Pattern), strconv.Quote(n.Replacement), flagExpr), nil
}
