package filters

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"filter-workbench/internal/opencv/conversion"
	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// StructuringElement describes a dilation kernel either as an explicit 0/1
// mask or as one of OpenCV's built-in shapes.
type StructuringElement struct {
	Name  string
	Mask  [][]uint8
	Shape gocv.MorphShape
	Size  image.Point
}

var (
	// BoxElement is the full 3x3 square.
	BoxElement = StructuringElement{
		Name: "SE: Box 3x3",
		Mask: [][]uint8{
			{1, 1, 1},
			{1, 1, 1},
			{1, 1, 1},
		},
	}

	// HorizontalElement only grows foreground left and right.
	HorizontalElement = StructuringElement{
		Name: "SE: Horizontal",
		Mask: [][]uint8{
			{0, 0, 0},
			{1, 1, 1},
			{0, 0, 0},
		},
	}

	RectElement5    = StructuringElement{Name: "SE: Rect 5x5", Shape: gocv.MorphRect, Size: image.Pt(5, 5)}
	EllipseElement7 = StructuringElement{Name: "SE: Ellipse 7x7", Shape: gocv.MorphEllipse, Size: image.Pt(7, 7)}
)

// Kernel builds the OpenCV kernel. The caller closes it.
func (se StructuringElement) Kernel() (gocv.Mat, error) {
	if se.Mask == nil {
		if se.Size.X <= 0 || se.Size.Y <= 0 {
			return gocv.Mat{}, fmt.Errorf("%s: invalid size %v", se.Name, se.Size)
		}
		return gocv.GetStructuringElement(se.Shape, se.Size), nil
	}

	rows := len(se.Mask)
	if rows == 0 || len(se.Mask[0]) == 0 {
		return gocv.Mat{}, fmt.Errorf("%s: empty mask", se.Name)
	}
	cols := len(se.Mask[0])

	kernel := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
	for r, row := range se.Mask {
		if len(row) != cols {
			kernel.Close()
			return gocv.Mat{}, fmt.Errorf("%s: ragged mask row %d", se.Name, r)
		}
		for c, v := range row {
			kernel.SetUCharAt(r, c, v)
		}
	}
	return kernel, nil
}

// Dilate applies one dilation iteration of se to a single channel image.
func Dilate(input *safe.Mat, se StructuringElement) (*safe.Mat, error) {
	if err := safe.ValidateChannels(input, "dilate", 1); err != nil {
		return nil, err
	}

	kernel, err := se.Kernel()
	if err != nil {
		return nil, err
	}
	defer kernel.Close()

	dst := gocv.NewMat()
	gocv.Dilate(input.GetMat(), &dst, kernel)
	return safe.Adopt(dst)
}

// DilationFilter binarizes the input, dilates it once with each of two
// structuring elements and places the labelled results side by side.
type DilationFilter struct {
	binary *BinaryFilter
	Left   StructuringElement
	Right  StructuringElement
}

func NewDilationFilter(level int) *DilationFilter {
	return &DilationFilter{
		binary: NewBinaryFilter(level),
		Left:   BoxElement,
		Right:  HorizontalElement,
	}
}

func (d *DilationFilter) Name() string {
	return OpDilation
}

func (d *DilationFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	binary, err := d.binary.Apply(ctx, input)
	if err != nil {
		return nil, err
	}
	defer binary.Close()

	left, err := labelledDilation(binary, d.Left, color.RGBA{R: 255, A: 255})
	if err != nil {
		return nil, err
	}
	defer left.Close()

	right, err := labelledDilation(binary, d.Right, color.RGBA{B: 255, A: 255})
	if err != nil {
		return nil, err
	}
	defer right.Close()

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.Hconcat(left.GetMat(), right.GetMat(), &dst)
	return safe.Adopt(dst)
}

func labelledDilation(binary *safe.Mat, se StructuringElement, ink color.RGBA) (*safe.Mat, error) {
	dilated, err := Dilate(binary, se)
	if err != nil {
		return nil, err
	}
	defer dilated.Close()

	bgr, err := conversion.ToBGR(dilated)
	if err != nil {
		return nil, err
	}

	mat := bgr.GetMat()
	gocv.PutTextWithParams(&mat, se.Name, image.Pt(10, 25), gocv.FontHersheySimplex, 0.7, ink, 2, gocv.LineAA, false)
	return bgr, nil
}

// DilationUnionFilter binarizes the input and returns the union of its
// dilations by a 5x5 rectangle and a 7x7 ellipse.
type DilationUnionFilter struct {
	binary *BinaryFilter
	First  StructuringElement
	Second StructuringElement
}

func NewDilationUnionFilter(level int) *DilationUnionFilter {
	return &DilationUnionFilter{
		binary: NewBinaryFilter(level),
		First:  RectElement5,
		Second: EllipseElement7,
	}
}

func (d *DilationUnionFilter) Name() string {
	return OpDilationUnion
}

func (d *DilationUnionFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	binary, err := d.binary.Apply(ctx, input)
	if err != nil {
		return nil, err
	}
	defer binary.Close()

	first, err := Dilate(binary, d.First)
	if err != nil {
		return nil, err
	}
	defer first.Close()

	second, err := Dilate(binary, d.Second)
	if err != nil {
		return nil, err
	}
	defer second.Close()

	dst := gocv.NewMat()
	gocv.BitwiseOr(first.GetMat(), second.GetMat(), &dst)
	return safe.Adopt(dst)
}
