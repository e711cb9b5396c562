package filters

import (
	"context"
	"fmt"

	"filter-workbench/internal/opencv/conversion"
	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// BrightnessFilter adds Delta to every sample of every channel, saturating
// at 255.
type BrightnessFilter struct {
	Delta int
}

func NewBrightnessFilter(delta int) *BrightnessFilter {
	return &BrightnessFilter{Delta: delta}
}

func (b *BrightnessFilter) Name() string {
	return OpBrightness
}

func (b *BrightnessFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := safe.ValidateChannels(input, OpBrightness, 1, 3, 4); err != nil {
		return nil, err
	}

	return saturatingAdd(input.GetMat(), b.Delta)
}

// HSVBrightnessFilter raises the V channel of a BGR image by Delta and
// converts back, leaving hue and saturation untouched.
type HSVBrightnessFilter struct {
	Delta int
}

func NewHSVBrightnessFilter(delta int) *HSVBrightnessFilter {
	return &HSVBrightnessFilter{Delta: delta}
}

func (h *HSVBrightnessFilter) Name() string {
	return OpBrightnessHSV
}

func (h *HSVBrightnessFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	hsv, err := conversion.Convert(input, gocv.ColorBGRToHSV)
	if err != nil {
		return nil, err
	}
	defer hsv.Close()

	planes := gocv.Split(hsv.GetMat())
	defer func() {
		for i := range planes {
			planes[i].Close()
		}
	}()
	if len(planes) != 3 {
		return nil, fmt.Errorf("expected 3 HSV planes, got %d", len(planes))
	}

	value, err := saturatingAdd(planes[2], h.Delta)
	if err != nil {
		return nil, err
	}
	defer value.Close()

	merged := gocv.NewMat()
	gocv.Merge([]gocv.Mat{planes[0], planes[1], value.GetMat()}, &merged)

	brightened, err := safe.Adopt(merged)
	if err != nil {
		return nil, err
	}
	defer brightened.Close()

	return conversion.Convert(brightened, gocv.ColorHSVToBGR)
}

func saturatingAdd(src gocv.Mat, delta int) (*safe.Mat, error) {
	if delta < 0 || delta > 255 {
		return nil, fmt.Errorf("brightness delta %d out of range [0, 255]", delta)
	}

	v := float64(delta)
	addend := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, v), src.Rows(), src.Cols(), src.Type())
	defer addend.Close()

	dst := gocv.NewMat()
	gocv.Add(src, addend, &dst)
	return safe.Adopt(dst)
}
