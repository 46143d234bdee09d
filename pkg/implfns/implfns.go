// Package implfns is the catalog of hand-written conversion functions.
//
// The registry resolves well-known formulas to functions in this
// package instead of compiling them, and generated code calls into it
// for resolved external-namespace names. Functions here are ports of
// catalog behavior with hand-verified corner cases; keep their output
// byte-compatible when touching them.
package implfns

import (
	"fmt"
	"math"

	"github.com/tagforge/convgen/pkg/tagval"
)

// PrintExposureTime renders an exposure time in seconds, switching to
// the reciprocal form below 1/4 second the way camera displays do.
func PrintExposureTime(v tagval.Value) tagval.Value {
	secs := tagval.Num(v)
	if secs == 0 {
		return tagval.Str("0")
	}
	if secs < 0.25001 && secs > 0 {
		return tagval.Str(fmt.Sprintf("1/%d", int64(0.5+1/secs)))
	}
	s := fmt.Sprintf("%.1f", secs)
	if secs == math.Trunc(secs) {
		s = fmt.Sprintf("%d", int64(secs))
	}
	return tagval.Str(s)
}

// PrintFNumber renders an aperture with the conventional precision:
// one decimal up to f/10, none above.
func PrintFNumber(v tagval.Value) tagval.Value {
	f := tagval.Num(v)
	if f > 0 && f < 10 {
		return tagval.Str(fmt.Sprintf("%.1f", f))
	}
	return tagval.Str(fmt.Sprintf("%.0f", f))
}

// PrintFraction renders a signed rational approximation with the
// smallest denominator among 1, 2 and 3 that is exact.
func PrintFraction(v tagval.Value) tagval.Value {
	f := tagval.Num(v)
	if f == 0 {
		return tagval.Str("0")
	}
	sign := "+"
	if f < 0 {
		sign = "-"
		f = -f
	}
	switch {
	case math.Trunc(f*2) == f*2:
		if math.Trunc(f) == f {
			return tagval.Str(fmt.Sprintf("%s%d", sign, int64(f)))
		}
		return tagval.Str(fmt.Sprintf("%s%d/2", sign, int64(f*2)))
	case math.Trunc(f*3) == f*3:
		return tagval.Str(fmt.Sprintf("%s%d/3", sign, int64(f*3)))
	default:
		return tagval.Str(fmt.Sprintf("%s%.3g", sign, f))
	}
}

// ToDMS renders a decimal coordinate as degrees, minutes and seconds.
func ToDMS(v tagval.Value) tagval.Value {
	deg := tagval.Num(v)
	neg := deg < 0
	if neg {
		deg = -deg
	}
	d := math.Trunc(deg)
	minFloat := (deg - d) * 60
	m := math.Trunc(minFloat)
	s := (minFloat - m) * 60
	out := fmt.Sprintf("%d deg %d' %.2f\"", int64(d), int64(m), s)
	if neg {
		out = "-" + out
	}
	return tagval.Str(out)
}

// ConvertDuration renders a second count as hours:minutes:seconds once
// it exceeds a minute, seconds with a unit below that.
func ConvertDuration(v tagval.Value) tagval.Value {
	secs := tagval.Num(v)
	if secs < 60 {
		return tagval.Str(fmt.Sprintf("%.2f s", secs))
	}
	total := int64(secs + 0.5)
	return tagval.Str(fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60))
}

// ConvertBitrate renders a bit rate with a binary-magnitude unit.
func ConvertBitrate(v tagval.Value) tagval.Value {
	rate := tagval.Num(v)
	switch {
	case rate >= 1e9:
		return tagval.Str(fmt.Sprintf("%.3g Gbps", rate/1e9))
	case rate >= 1e6:
		return tagval.Str(fmt.Sprintf("%.3g Mbps", rate/1e6))
	case rate >= 1e3:
		return tagval.Str(fmt.Sprintf("%.3g kbps", rate/1e3))
	default:
		return tagval.Str(fmt.Sprintf("%g bps", rate))
	}
}

// PrintFocalLength renders a focal length in millimeters.
func PrintFocalLength(v tagval.Value) tagval.Value {
	return tagval.Str(fmt.Sprintf("%.1f mm", tagval.Num(v)))
}

// PrintSeconds renders a duration in seconds with two decimals.
func PrintSeconds(v tagval.Value) tagval.Value {
	return tagval.Str(fmt.Sprintf("%.2f s", tagval.Num(v)))
}

// PrintSigned renders an integer with an explicit sign.
func PrintSigned(v tagval.Value) tagval.Value {
	return tagval.Str(fmt.Sprintf("%+d", int64(tagval.Num(v))))
}

// CanonEv decodes the Canon exposure-value encoding: the stored byte
// counts thirds of a stop downward from the base.
func CanonEv(v tagval.Value) tagval.Value {
	return tagval.Float(math.Pow(2, -tagval.Num(v)/3))
}

// InverseTimes10 converts a stored reciprocal scaled by ten, guarding
// the zero case.
func InverseTimes10(v tagval.Value) tagval.Value {
	f := tagval.Num(v)
	if f == 0 {
		return tagval.Float(0)
	}
	return tagval.Float(10 / f)
}

// GPSCoordinate combines the degree, minute and second components of a
// coordinate triple into decimal degrees.
func GPSCoordinate(v tagval.Value) tagval.Value {
	d := tagval.Num(tagval.Index(v, 0))
	m := tagval.Num(tagval.Index(v, 1))
	s := tagval.Num(tagval.Index(v, 2))
	return tagval.Float(d + m/60 + s/3600)
}

// NikonHighByte extracts the high byte of a two-byte packed value.
func NikonHighByte(v tagval.Value) tagval.Value {
	return tagval.Float(float64(int64(tagval.Num(v)) >> 8))
}
