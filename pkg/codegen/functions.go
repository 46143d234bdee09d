package codegen

// numericFuncs maps the fixed numeric functions of the formula grammar
// to their native counterparts. int truncates toward zero, matching the
// modeled language, so math.Trunc rather than a float-to-int cast.
var numericFuncs = map[string]string{
	"int": "math.Trunc",
	"exp": "math.Exp",
	"log": "math.Log",
}

// externalFuncs resolves external-namespace call names against the
// hand-written implementation catalog. Names outside this map still
// compile (see genExtCall); the map only grows when a catalog function
// is ported by hand.
var externalFuncs = map[string]string{
	"Image::ExifTool::Exif::PrintExposureTime": "implfns.PrintExposureTime",
	"Image::ExifTool::Exif::PrintFNumber":      "implfns.PrintFNumber",
	"Image::ExifTool::Exif::PrintFraction":     "implfns.PrintFraction",
	"Image::ExifTool::GPS::ToDMS":              "implfns.ToDMS",
	"Image::ExifTool::ConvertDuration":         "implfns.ConvertDuration",
	"Image::ExifTool::ConvertBitrate":          "implfns.ConvertBitrate",
}
