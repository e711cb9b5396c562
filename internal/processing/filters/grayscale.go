package filters

import (
	"context"

	"filter-workbench/internal/opencv/conversion"
	"filter-workbench/internal/opencv/safe"
)

// GrayscaleConverter produces a single channel luminance image
// (0.299 R + 0.587 G + 0.114 B).
type GrayscaleConverter struct{}

func NewGrayscaleConverter() *GrayscaleConverter {
	return &GrayscaleConverter{}
}

func (g *GrayscaleConverter) Name() string {
	return OpGrayscale
}

func (g *GrayscaleConverter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	return conversion.ToGray(input)
}
