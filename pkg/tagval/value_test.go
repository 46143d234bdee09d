package tagval_test

import (
	"regexp"
	"testing"

	"github.com/tagforge/convgen/pkg/tagval"
)

func TestNum(t *testing.T) {
	tests := []struct {
		name string
		in   tagval.Value
		want float64
	}{
		{"undef", tagval.Undef(), 0},
		{"int", tagval.Int(42), 42},
		{"float", tagval.Float(2.5), 2.5},
		{"numeric string", tagval.Str("8.25"), 8.25},
		{"string with unit suffix", tagval.Str("35 mm"), 35},
		{"signed prefix", tagval.Str("-1.5EV"), -1.5},
		{"leading whitespace", tagval.Str("  12"), 12},
		{"non-numeric string", tagval.Str("Canon"), 0},
		{"bare sign", tagval.Str("-"), 0},
		{"second dot stops the scan", tagval.Str("1.2.3"), 1.2},
		{"empty string", tagval.Str(""), 0},
		{"list takes first element", tagval.List(tagval.Float(3), tagval.Float(9)), 3},
		{"empty list", tagval.List(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tagval.Num(tc.in); got != tc.want {
				t.Errorf("Num(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   tagval.Value
		want string
	}{
		{"undef", tagval.Undef(), ""},
		{"int", tagval.Int(42), "42"},
		{"integral float drops the point", tagval.Float(8), "8"},
		{"fractional float", tagval.Float(2.5), "2.5"},
		{"string", tagval.Str("f/2.8"), "f/2.8"},
		{"list joins with spaces", tagval.List(tagval.Int(16), tagval.Int(9)), "16 9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tagval.Text(tc.in); got != tc.want {
				t.Errorf("Text(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	list := tagval.List(tagval.Int(40), tagval.Int(30), tagval.Int(20))

	if got := tagval.Num(tagval.Index(list, 1)); got != 30 {
		t.Errorf("Index(list, 1) = %v, want 30", got)
	}
	if !tagval.Index(list, 5).IsUndef() {
		t.Error("out-of-range subscript should be undefined")
	}
	if !tagval.Index(list, -1).IsUndef() {
		t.Error("negative subscript should be undefined")
	}

	// Scalars behave as a one-element list.
	scalar := tagval.Float(7)
	if got := tagval.Num(tagval.Index(scalar, 0)); got != 7 {
		t.Errorf("Index(scalar, 0) = %v, want 7", got)
	}
	if !tagval.Index(scalar, 1).IsUndef() {
		t.Error("scalar subscript past zero should be undefined")
	}
}

func TestBoolToFloat(t *testing.T) {
	if tagval.BoolToFloat(true) != 1 || tagval.BoolToFloat(false) != 0 {
		t.Error("comparison surrogate must be 1/0")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{8, "8"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.001, "0.001"},
	}
	for _, tc := range tests {
		if got := tagval.FormatNumber(tc.in); got != tc.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	trail := regexp.MustCompile(" +$")
	if got := tagval.Substitute("8 mm  ", trail, "", false); got != "8 mm" {
		t.Errorf("trailing spaces: %q", got)
	}

	digit := regexp.MustCompile(`\d`)
	if got := tagval.Substitute("a1b2", digit, "x", false); got != "axb2" {
		t.Errorf("first occurrence only: %q", got)
	}
	if got := tagval.Substitute("a1b2", digit, "x", true); got != "axbx" {
		t.Errorf("global: %q", got)
	}

	// Group references use Go's expansion form; the generator rewrites
	// $1 to ${1} before emitting.
	frac := regexp.MustCompile(`(\d+)/(\d+)`)
	if got := tagval.Substitute("16/9 screen", frac, "${2}:${1}", false); got != "9:16 screen" {
		t.Errorf("group reference: %q", got)
	}

	if got := tagval.Substitute("none", digit, "x", false); got != "none" {
		t.Errorf("no match must pass through: %q", got)
	}
}

func TestTranslateChars(t *testing.T) {
	if got := tagval.TranslateChars("abc-xyz", "a-z", "A-Z", 0); got != "ABC-XYZ" {
		t.Errorf("uppercase: %q", got)
	}

	// Shorter replace set repeats its last character.
	if got := tagval.TranslateChars("abcd", "a-d", "xy", 0); got != "xyyy" {
		t.Errorf("short replace set: %q", got)
	}

	// Delete drops unmatched search characters instead.
	if got := tagval.TranslateChars("abcd", "a-d", "xy", tagval.TrDelete); got != "xy" {
		t.Errorf("delete flag: %q", got)
	}

	// Empty replace set with delete strips the search set entirely.
	if got := tagval.TranslateChars("a1b2c3", "0-9", "", tagval.TrDelete); got != "abc" {
		t.Errorf("strip digits: %q", got)
	}

	// Complement matches everything outside the search set.
	if got := tagval.TranslateChars("ab12", "0-9", "", tagval.TrComplement|tagval.TrDelete); got != "12" {
		t.Errorf("complement delete: %q", got)
	}
	if got := tagval.TranslateChars("ab12", "0-9", "_", tagval.TrComplement); got != "__12" {
		t.Errorf("complement remap: %q", got)
	}
}

func TestUnimplementedCall(t *testing.T) {
	in := tagval.Str("1/250")
	got := tagval.UnimplementedCall("Image::ExifTool::Exif::PrintExposureTime", in)
	if got.Kind() != in.Kind() || tagval.Text(got) != tagval.Text(in) {
		t.Errorf("UnimplementedCall changed the value: %v", got)
	}
}
