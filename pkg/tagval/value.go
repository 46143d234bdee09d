// Package tagval defines the tagged value model shared by generated
// conversion functions and the hand-written implementation catalog.
//
// Every metadata field value, both as conversion input and output, is a
// [Value]: a closed set of variants (integer, float, string, list).
// The package also carries the small helpers that generated code calls,
// so the emitted source stays short and readable.
package tagval

import (
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

// Value variants.
const (
	KindUndef ValueKind = iota
	KindInt
	KindFloat
	KindString
	KindList
)

// Value is an immutable tagged value.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	list []Value
}

// Undef returns the undefined value.
func Undef() Value {
	return Value{}
}

// Int creates an integer value.
func Int(v int64) Value {
	return Value{kind: KindInt, num: float64(v)}
}

// Float creates a float value.
func Float(v float64) Value {
	return Value{kind: KindFloat, num: v}
}

// Str creates a string value.
func Str(v string) Value {
	return Value{kind: KindString, str: v}
}

// List creates a list value. The elements are not copied.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsUndef reports whether the value is undefined.
func (v Value) IsUndef() bool {
	return v.kind == KindUndef
}

// Num returns the numeric form of a value. Strings are read the way the
// modeled formula language reads them: the longest numeric prefix
// counts and anything else is zero. Lists yield their first element's
// numeric form.
func Num(v Value) float64 {
	switch v.kind {
	case KindInt, KindFloat:
		return v.num
	case KindString:
		return numericPrefix(v.str)
	case KindList:
		if len(v.list) > 0 {
			return Num(v.list[0])
		}
	}
	return 0
}

// Text returns the string form of a value. Floats format compactly
// (no trailing zeros, no exponent for the magnitudes metadata uses).
func Text(v Value) string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindFloat:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = Text(e)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// Index returns element i of a list value. Non-list values behave as a
// single-element list; out-of-range subscripts are undefined.
func Index(v Value, i int) Value {
	if v.kind != KindList {
		if i == 0 {
			return v
		}
		return Undef()
	}
	if i < 0 || i >= len(v.list) {
		return Undef()
	}
	return v.list[i]
}

// BoolToFloat is the integer surrogate for comparison results: the
// output model has no independent boolean variant.
func BoolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// FormatNumber formats a float the way the modeled language prints
// numbers in string context: integral values without a decimal point,
// everything else with the shortest round-tripping form.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// numericPrefix parses the longest leading numeric run of s, including
// an optional sign and a single decimal point.
func numericPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '+' || c == '-') && end == 0:
		default:
			goto done
		}
		end++
	}
done:
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
