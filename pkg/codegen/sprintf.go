package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tagforge/convgen/pkg/types"
)

// genSprintf translates a constrained printf-style call into a native
// fmt.Sprintf. The two dialects agree on the supported specifiers
// (fixed-precision float, integer, hex, string), so recognized verbs
// pass through unchanged; anything unrecognized is copied verbatim
// rather than rejected.
func (g *Generator) genSprintf(n *types.Node) (string, error) {
	if n.StrValue == "" {
		return "", types.NewError(types.ErrMissingLiteral, "Formatted output without a template", n.Position)
	}

	template, verbs := translateTemplate(n.StrValue)

	args := make([]string, 0, len(n.Args))
	for i, argNode := range n.Args {
		verb := byte('s')
		if i < len(verbs) {
			verb = verbs[i]
		}
		arg, err := g.genFormatArg(argNode, verb)
		if err != nil {
			return "", err
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		return fmt.Sprintf("tagval.Str(%s)", strconv.Quote(unescapePercent(template))), nil
	}

	g.use("fmt")
	return fmt.Sprintf("tagval.Str(fmt.Sprintf(%s, %s))", strconv.Quote(template), strings.Join(args, ", ")), nil
}

// genFormatArg emits one sprintf argument in the representation its
// verb consumes: integer verbs get a truncated int64, float verbs a
// bare float64 and string verbs the value's string form.
func (g *Generator) genFormatArg(n *types.Node, verb byte) (string, error) {
	switch verb {
	case 'd', 'x', 'X', 'o', 'b', 'c':
		raw, err := g.genRaw(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("int64(%s)", raw), nil
	case 'f', 'e', 'g':
		return g.genRaw(n)
	default:
		wrapped, err := g.genWrapped(n)
		if err != nil {
			return "", err
		}
		return "tagval.Text(" + wrapped + ")", nil
	}
}

// translateTemplate scans a printf template and returns it in Go form
// together with the verb letter of each recognized specifier, in order.
// Specifier shape: %[flags][width][.precision]verb.
func translateTemplate(template string) (string, []byte) {
	var out strings.Builder
	var verbs []byte

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		if i+1 < len(template) && template[i+1] == '%' {
			out.WriteString("%%")
			i++
			continue
		}

		// Scan one specifier.
		j := i + 1
		for j < len(template) && isSpecifierPart(template[j]) {
			j++
		}
		if j < len(template) && isVerb(template[j]) {
			verbs = append(verbs, template[j])
			out.WriteString(template[i : j+1])
			i = j
			continue
		}

		// Unrecognized specifier: copied verbatim.
		out.WriteByte(c)
	}

	return out.String(), verbs
}

// isSpecifierPart matches printf flag, width and precision characters.
func isSpecifierPart(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '+' || c == ' ' || c == '#' || c == '.':
		return true
	default:
		return false
	}
}

// isVerb matches the recognized conversion letters.
func isVerb(c byte) bool {
	switch c {
	case 'd', 'x', 'X', 'o', 'b', 'c', 's', 'f', 'e', 'g':
		return true
	default:
		return false
	}
}
