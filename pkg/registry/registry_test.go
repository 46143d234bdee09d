package registry_test

import (
	"testing"

	"github.com/tagforge/convgen/pkg/audit"
	"github.com/tagforge/convgen/pkg/registry"
	"github.com/tagforge/convgen/pkg/types"
)

func TestClassifyOverrides(t *testing.T) {
	tests := []struct {
		name     string
		formula  string
		scope    string
		wantFunc string
	}{
		{
			"exact catalog call",
			"Image::ExifTool::Exif::PrintExposureTime($val)",
			"",
			"PrintExposureTime",
		},
		{
			// The formula compiles on its own; the override must still
			// win.
			"override beats compilation",
			"2 ** (-$val/3)",
			"Canon",
			"CanonEv",
		},
		{
			"whitespace-normalized match",
			"2   **   (-$val/3)",
			"",
			"CanonEv",
		},
		{
			"scope-qualified match",
			"$val[0] + $val[1]/60 + $val[2]/3600",
			"GPS",
			"GPSCoordinate",
		},
		{
			"scope-qualified shift",
			"$val >> 8",
			"Nikon",
			"NikonHighByte",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := registry.Classify(tc.formula, tc.scope, types.KindValue)
			if res.Kind != registry.Override {
				t.Fatalf("Classify(%q, %q) kind = %v, want Override", tc.formula, tc.scope, res.Kind)
			}
			if res.Func != tc.wantFunc {
				t.Errorf("Classify(%q, %q) func = %s, want %s", tc.formula, tc.scope, res.Func, tc.wantFunc)
			}
			if res.Module == "" {
				t.Errorf("Classify(%q, %q) has empty module", tc.formula, tc.scope)
			}
		})
	}
}

func TestClassifyCompiled(t *testing.T) {
	res := registry.Classify("$val / 8", "Exif", types.KindValue)
	if res.Kind != registry.Compiled {
		t.Fatalf("kind = %v, want Compiled", res.Kind)
	}
	if res.Expr == nil || res.Expr.Source() != "$val / 8" {
		t.Fatalf("expr = %v", res.Expr)
	}

	// Scope qualification must not leak: the GPS text compiles normally
	// under any other table.
	res = registry.Classify("$val[0] + $val[1]/60 + $val[2]/3600", "Exif", types.KindValue)
	if res.Kind != registry.Compiled {
		t.Errorf("GPS text under Exif scope: kind = %v, want Compiled", res.Kind)
	}

	// Spacing differences route past the exact-match keys but still
	// compile.
	res = registry.Classify(`sprintf("%.1f mm", $val)`, "", types.KindDisplay)
	if res.Kind != registry.Compiled {
		t.Errorf("spaced sprintf: kind = %v, want Compiled", res.Kind)
	}
}

func TestClassifyUnimplemented(t *testing.T) {
	audit.Reset()
	defer audit.Reset()

	res := registry.Classify("$self{Make} =~ /Canon/", "Canon", types.KindCondition)
	if res.Kind != registry.Unimplemented {
		t.Fatalf("kind = %v, want Unimplemented", res.Kind)
	}

	log := audit.Snapshot()
	if len(log) != 1 {
		t.Fatalf("audit log = %+v, want one entry", log)
	}
	if log[0].Tag != "Canon" || log[0].Formula != "$self{Make} =~ /Canon/" || log[0].Kind != types.KindCondition {
		t.Errorf("audit entry = %+v", log[0])
	}

	// Repeated classification of the same formula must not grow the log.
	registry.Classify("$self{Make} =~ /Canon/", "Canon", types.KindCondition)
	if log = audit.Snapshot(); len(log) != 1 {
		t.Errorf("audit log after repeat = %+v, want one entry", log)
	}

	// Without a scope the entry carries the placeholder tag.
	registry.Classify("join(' ', split ' ', $val)", "", types.KindValue)
	log = audit.Snapshot()
	if len(log) != 2 || log[1].Tag != "-" {
		t.Errorf("audit log = %+v, want placeholder tag on second entry", log)
	}
}
