package registry

// implfnsModule is the import path of the hand-written catalog.
const implfnsModule = "github.com/tagforge/convgen/pkg/implfns"

// overrides maps formula text, optionally scope-qualified, to its
// hand-verified implementation. Keys use the raw catalog text; the
// normalized form is derived at lookup time, never stored.
//
// The table is read-only after first initialization; add entries here
// only together with the implementation they reference.
var overrides = map[string]Entry{
	// Formulas whose catalog behavior has hand-verified corner cases
	// (rounding, zero handling) that a fresh compilation would not
	// reproduce exactly.
	"Image::ExifTool::Exif::PrintExposureTime($val)": {implfnsModule, "PrintExposureTime"},
	"Image::ExifTool::Exif::PrintFNumber($val)":      {implfnsModule, "PrintFNumber"},
	"Image::ExifTool::Exif::PrintFraction($val)":     {implfnsModule, "PrintFraction"},
	"Image::ExifTool::ConvertDuration($val)":         {implfnsModule, "ConvertDuration"},
	"Image::ExifTool::ConvertBitrate($val)":          {implfnsModule, "ConvertBitrate"},

	// Compilable on their own, but the hand-written forms predate the
	// generator and stay authoritative.
	`sprintf("%.1f mm",$val)`:  {implfnsModule, "PrintFocalLength"},
	`sprintf("%.2f s",$val)`:   {implfnsModule, "PrintSeconds"},
	`sprintf("%+d",$val)`:      {implfnsModule, "PrintSigned"},
	"2 ** (-$val/3)":           {implfnsModule, "CanonEv"},
	"$val ? 10 / $val : 0":     {implfnsModule, "InverseTimes10"},

	// Scope-qualified: the same text converts differently per table.
	"GPS::$val[0] + $val[1]/60 + $val[2]/3600": {implfnsModule, "GPSCoordinate"},
	"Nikon::$val >> 8":                         {implfnsModule, "NikonHighByte"},
}
