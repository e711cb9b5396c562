package filters

import (
	"context"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// InvertFilter is the bitwise NOT of every sample.
type InvertFilter struct{}

func NewInvertFilter() *InvertFilter {
	return &InvertFilter{}
}

func (i *InvertFilter) Name() string {
	return OpNot
}

func (i *InvertFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatForOperation(input, OpNot); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.BitwiseNot(input.GetMat(), &dst)
	return safe.Adopt(dst)
}
