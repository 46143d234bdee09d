package ingest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tagforge/convgen/pkg/codegen"
	"github.com/tagforge/convgen/pkg/ingest"
	"github.com/tagforge/convgen/pkg/types"
)

func TestParseBinaryTree(t *testing.T) {
	data := []byte(`{
		"type": "binary", "op": "/",
		"left":  {"type": "variable"},
		"right": {"type": "number", "value": 8}
	}`)

	expr, err := ingest.Parse(data, "$val / 8")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if expr.Source() != "$val / 8" {
		t.Errorf("source = %q", expr.Source())
	}

	root := expr.AST()
	if root.Type != types.NodeBinary || root.Op != "/" {
		t.Fatalf("root = %s %q", root.Type, root.Op)
	}
	if root.LHS.Type != types.NodeVariable || root.RHS.NumValue != 8 {
		t.Errorf("operands = %+v, %+v", root.LHS, root.RHS)
	}

	// An ingested tree must generate exactly like a natively parsed one.
	src, err := codegen.Generate(root, types.KindValue, "Conv")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := "func Conv(val tagval.Value) (tagval.Value, error) {\n" +
		"\treturn tagval.Float((tagval.Num(val) / 8.0)), nil\n}\n"
	if src != want {
		t.Errorf("generated:\n%s\nwant:\n%s", src, want)
	}
}

func TestParseSubstitutionTree(t *testing.T) {
	data := []byte(`{
		"type": "subst",
		"target": {"type": "variable"},
		"pattern": " +$",
		"replacement": "",
		"flags": ""
	}`)

	expr, err := ingest.Parse(data, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := expr.AST()
	if root.Type != types.NodeSubstitution || root.Pattern != " +$" {
		t.Fatalf("root = %+v", root)
	}

	src, err := codegen.Generate(root, types.KindDisplay, "Disp")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(src, `tagval.Substitute(tagval.Text(val), regexp.MustCompile(" +$"), "", false)`) {
		t.Errorf("generated:\n%s", src)
	}
}

func TestParseTranslateTree(t *testing.T) {
	data := []byte(`{
		"type": "tr",
		"target": {"type": "variable"},
		"search": "a-z",
		"replace": "A-Z",
		"flags": ""
	}`)

	expr, err := ingest.Parse(data, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := expr.AST()
	if root.Type != types.NodeTranslate || root.Pattern != "a-z" || root.Replacement != "A-Z" {
		t.Fatalf("root = %+v", root)
	}
}

func TestParseExtCallTree(t *testing.T) {
	data := []byte(`{
		"type": "extcall",
		"name": "Image::ExifTool::GPS::ToDMS",
		"arg": {"type": "variable"}
	}`)

	expr, err := ingest.Parse(data, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := expr.AST()
	if root.Type != types.NodeExtCall || root.StrValue != "Image::ExifTool::GPS::ToDMS" {
		t.Fatalf("root = %+v", root)
	}

	src, err := codegen.Generate(root, types.KindDisplay, "Disp")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(src, "implfns.ToDMS(val)") {
		t.Errorf("generated:\n%s", src)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	data := `{"type": "variable", "bogus": true}`
	_, err := ingest.Decode(strings.NewReader(data), "")
	if !hasCode(err, types.ErrBadTree) {
		t.Errorf("unknown field: got %v, want %s", err, types.ErrBadTree)
	}
}

func TestParseMalformedTrees(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"unknown node type", `{"type": "mystery"}`},
		{"binary without operator", `{"type": "binary", "left": {"type": "variable"}, "right": {"type": "number"}}`},
		{"binary missing child", `{"type": "binary", "op": "+", "left": {"type": "variable"}}`},
		{"ternary missing branch", `{"type": "ternary", "cond": {"type": "variable"}, "then": {"type": "number"}}`},
		{"negative subscript", `{"type": "indexed", "index": -1}`},
		{"function without name", `{"type": "function", "arg": {"type": "variable"}}`},
		{"extcall without name", `{"type": "extcall"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ingest.Parse([]byte(tc.data), ""); !hasCode(err, types.ErrBadTree) {
				t.Errorf("got %v, want %s", err, types.ErrBadTree)
			}
		})
	}
}

func hasCode(err error, code types.ErrorCode) bool {
	var cerr *types.Error
	return errors.As(err, &cerr) && cerr.Code == code
}
