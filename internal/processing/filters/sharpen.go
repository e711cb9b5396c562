package filters

import (
	"context"
	"image"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// SharpenKernel is the 4-neighbour Laplacian sharpening mask.
var SharpenKernel = [3][3]float32{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

type SharpenFilter struct {
	Kernel [3][3]float32
}

func NewSharpenFilter() *SharpenFilter {
	return &SharpenFilter{Kernel: SharpenKernel}
}

func (s *SharpenFilter) Name() string {
	return OpSharpen
}

func (s *SharpenFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatForOperation(input, OpSharpen); err != nil {
		return nil, err
	}

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			kernel.SetFloatAt(r, c, s.Kernel[r][c])
		}
	}

	dst := gocv.NewMat()
	gocv.Filter2D(input.GetMat(), &dst, -1, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
	return safe.Adopt(dst)
}
