package implfns_test

import (
	"testing"

	"github.com/tagforge/convgen/pkg/implfns"
	"github.com/tagforge/convgen/pkg/tagval"
)

func TestPrintExposureTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.004, "1/250"},
		{0.0166666667, "1/60"},
		{0.25, "1/4"},
		{0.5, "0.5"},
		{1, "1"},
		{30, "30"},
		{1.5, "1.5"},
	}
	for _, tc := range tests {
		if got := tagval.Text(implfns.PrintExposureTime(tagval.Float(tc.in))); got != tc.want {
			t.Errorf("PrintExposureTime(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrintFNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.8, "2.8"},
		{8, "8.0"},
		{11, "11"},
		{22, "22"},
	}
	for _, tc := range tests {
		if got := tagval.Text(implfns.PrintFNumber(tagval.Float(tc.in))); got != tc.want {
			t.Errorf("PrintFNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrintFraction(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.5, "+1/2"},
		{-0.5, "-1/2"},
		{1, "+1"},
		{1.0 / 3, "+1/3"},
		{-2.0 / 3, "-2/3"},
	}
	for _, tc := range tests {
		if got := tagval.Text(implfns.PrintFraction(tagval.Float(tc.in))); got != tc.want {
			t.Errorf("PrintFraction(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToDMS(t *testing.T) {
	got := tagval.Text(implfns.ToDMS(tagval.Float(50.5)))
	if got != `50 deg 30' 0.00"` {
		t.Errorf("ToDMS(50.5) = %q", got)
	}
	got = tagval.Text(implfns.ToDMS(tagval.Float(-50.5)))
	if got != `-50 deg 30' 0.00"` {
		t.Errorf("ToDMS(-50.5) = %q", got)
	}
}

func TestConvertDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50 s"},
		{60, "0:01:00"},
		{3723, "1:02:03"},
	}
	for _, tc := range tests {
		if got := tagval.Text(implfns.ConvertDuration(tagval.Float(tc.in))); got != tc.want {
			t.Errorf("ConvertDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConvertBitrate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "500 bps"},
		{128000, "128 kbps"},
		{2.5e6, "2.5 Mbps"},
		{1.5e9, "1.5 Gbps"},
	}
	for _, tc := range tests {
		if got := tagval.Text(implfns.ConvertBitrate(tagval.Float(tc.in))); got != tc.want {
			t.Errorf("ConvertBitrate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonEv(t *testing.T) {
	if got := tagval.Num(implfns.CanonEv(tagval.Float(0))); got != 1 {
		t.Errorf("CanonEv(0) = %v, want 1", got)
	}
	if got := tagval.Num(implfns.CanonEv(tagval.Float(3))); got != 0.5 {
		t.Errorf("CanonEv(3) = %v, want 0.5", got)
	}
}

func TestInverseTimes10(t *testing.T) {
	if got := tagval.Num(implfns.InverseTimes10(tagval.Float(0))); got != 0 {
		t.Errorf("InverseTimes10(0) = %v, want 0", got)
	}
	if got := tagval.Num(implfns.InverseTimes10(tagval.Float(4))); got != 2.5 {
		t.Errorf("InverseTimes10(4) = %v, want 2.5", got)
	}
}

func TestGPSCoordinate(t *testing.T) {
	triple := tagval.List(tagval.Float(50), tagval.Float(30), tagval.Float(0))
	if got := tagval.Num(implfns.GPSCoordinate(triple)); got != 50.5 {
		t.Errorf("GPSCoordinate = %v, want 50.5", got)
	}
}

func TestNikonHighByte(t *testing.T) {
	if got := tagval.Num(implfns.NikonHighByte(tagval.Float(0x1234))); got != 0x12 {
		t.Errorf("NikonHighByte = %v, want %v", got, 0x12)
	}
}

func TestPrintHelpers(t *testing.T) {
	if got := tagval.Text(implfns.PrintFocalLength(tagval.Float(35))); got != "35.0 mm" {
		t.Errorf("PrintFocalLength = %q", got)
	}
	if got := tagval.Text(implfns.PrintSeconds(tagval.Float(0.1))); got != "0.10 s" {
		t.Errorf("PrintSeconds = %q", got)
	}
	if got := tagval.Text(implfns.PrintSigned(tagval.Float(3))); got != "+3" {
		t.Errorf("PrintSigned = %q", got)
	}
	if got := tagval.Text(implfns.PrintSigned(tagval.Float(-3))); got != "-3" {
		t.Errorf("PrintSigned = %q", got)
	}
}
