package fuzz

import (
	"testing"

	"github.com/tagforge/convgen/pkg/codegen"
	"github.com/tagforge/convgen/pkg/parser"
	"github.com/tagforge/convgen/pkg/types"
)

func FuzzCompile(f *testing.F) {
	seeds := []string{
		`$val / 100`,
		`$val ? "on" : "off"`,
		`sprintf("%d x %d", $val[0], $val[1])`,
		`exp($val / 32 * log(2))`,
		`-$val ** 2`,
		`undef`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := parser.Parse(input)
		if err != nil {
			return
		}
		for _, kind := range []types.Kind{types.KindValue, types.KindDisplay, types.KindCondition} {
			src, err := codegen.Generate(expr.AST(), kind, "fuzzTarget")
			if err == nil && src == "" {
				t.Errorf("Generate(%q, %s) produced empty source", input, kind)
			}
		}
	})
}
