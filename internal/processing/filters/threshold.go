package filters

import (
	"context"
	"fmt"

	"filter-workbench/internal/opencv/safe"
	"filter-workbench/internal/processing/chain"

	"gocv.io/x/gocv"
)

// ThresholdFilter binarizes a single channel image: samples >= Level become
// 255, everything else 0.
type ThresholdFilter struct {
	Level int
}

func NewThresholdFilter(level int) *ThresholdFilter {
	return &ThresholdFilter{Level: level}
}

func (t *ThresholdFilter) Name() string {
	return "threshold"
}

func (t *ThresholdFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := safe.ValidateChannels(input, "threshold", 1); err != nil {
		return nil, err
	}
	if t.Level < 0 || t.Level > 256 {
		return nil, fmt.Errorf("threshold level %d out of range [0, 256]", t.Level)
	}

	// THRESH_BINARY keeps src > thresh, so shift by one for an inclusive level.
	dst := gocv.NewMat()
	gocv.Threshold(input.GetMat(), &dst, float32(t.Level-1), 255, gocv.ThresholdBinary)
	return safe.Adopt(dst)
}

// BinaryFilter is grayscale conversion followed by ThresholdFilter.
type BinaryFilter struct {
	steps *chain.ProcessingChain
}

func NewBinaryFilter(level int) *BinaryFilter {
	return &BinaryFilter{
		steps: chain.NewProcessingChain([]chain.ProcessingStep{
			NewGrayscaleConverter(),
			NewThresholdFilter(level),
		}),
	}
}

func (b *BinaryFilter) Name() string {
	return OpBinary
}

func (b *BinaryFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	return b.steps.Execute(ctx, input)
}
