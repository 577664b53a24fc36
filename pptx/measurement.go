package pptx

import "math"

// Lengths in the package are EMU (English Metric Units), the integer unit
// of DrawingML. Figures are measured in pixels at 96 DPI.
const (
	emuPerInch       = 914400
	emuPerPoint      = 12700
	emuPerCentimeter = 360000
	emuPerPixel      = emuPerInch / 96
)

// emuLimit bounds every converted length so sums of two never overflow.
const emuLimit = math.MaxInt64 / 2

// Inch returns n inches in EMU.
func Inch(n float64) int64 { return toEMU(n * emuPerInch) }

// Point returns n typographic points in EMU.
func Point(n float64) int64 { return toEMU(n * emuPerPoint) }

// Centimeter returns n centimeters in EMU.
func Centimeter(n float64) int64 { return toEMU(n * emuPerCentimeter) }

// Pixel returns n pixels at 96 DPI in EMU. Pixel(EMUToPixel(e)) == e for
// every e produced by Pixel.
func Pixel(n int) int64 { return toEMU(float64(n) * emuPerPixel) }

// EMUToPixel returns the nearest whole pixel count at 96 DPI.
func EMUToPixel(emu int64) int {
	return int(math.Round(float64(emu) / emuPerPixel))
}

// EMUToInch returns emu in inches.
func EMUToInch(emu int64) float64 { return float64(emu) / emuPerInch }

// scaleEMU returns v*num/den, the other side of a box whose aspect ratio
// is num:den.
func scaleEMU(v int64, num, den int) int64 {
	return toEMU(float64(v) * float64(num) / float64(den))
}

func toEMU(v float64) int64 {
	switch {
	case v > emuLimit:
		return emuLimit
	case v < -emuLimit:
		return -emuLimit
	}
	return int64(v)
}
