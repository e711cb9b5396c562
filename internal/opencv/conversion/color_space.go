package conversion

import (
	"fmt"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Convert applies a single cvtColor step and returns the new Mat.
func Convert(src *safe.Mat, code gocv.ColorConversionCode) (*safe.Mat, error) {
	if err := validateConversion(src, code); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.CvtColor(src.GetMat(), &dst, code)
	return safe.Adopt(dst)
}

// ToGray returns a single channel copy of src. Single channel input is cloned.
func ToGray(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateChannels(src, "grayscale conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	switch src.Channels() {
	case 1:
		return src.Clone()
	case 4:
		return Convert(src, gocv.ColorBGRAToGray)
	default:
		return Convert(src, gocv.ColorBGRToGray)
	}
}

// ToBGR returns a 3-channel BGR copy of src.
func ToBGR(src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateChannels(src, "BGR conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	switch src.Channels() {
	case 1:
		return Convert(src, gocv.ColorGrayToBGR)
	case 4:
		return Convert(src, gocv.ColorBGRAToBGR)
	default:
		return src.Clone()
	}
}

func validateConversion(src *safe.Mat, code gocv.ColorConversionCode) error {
	op := fmt.Sprintf("cvtColor(%d)", int(code))

	switch code {
	case gocv.ColorBGRToGray, gocv.ColorBGRToHSV, gocv.ColorHSVToBGR, gocv.ColorBGRToRGB:
		return safe.ValidateChannels(src, op, 3)
	case gocv.ColorGrayToBGR:
		return safe.ValidateChannels(src, op, 1)
	case gocv.ColorBGRAToBGR, gocv.ColorBGRAToGray:
		return safe.ValidateChannels(src, op, 4)
	default:
		return safe.ValidateMatForOperation(src, op)
	}
}
