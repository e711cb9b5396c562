package conversion

import (
	"fmt"
	"image"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToImage converts a 1, 3 (BGR) or 4 (BGRA) channel Mat to a Go image in
// RGB ordering.
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateChannels(src, "Mat to image conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	mat := src.GetMat()
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return img, nil
}

// ImageToMat converts a Go image to a Mat. Grayscale images stay single
// channel, everything else becomes 3-channel BGR.
func ImageToMat(img image.Image) (*safe.Mat, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("input image has invalid size %dx%d", bounds.Dx(), bounds.Dy())
	}

	var (
		mat gocv.Mat
		err error
	)
	switch typedImg := img.(type) {
	case *image.Gray:
		mat, err = gocv.ImageGrayToMatGray(typedImg)
	default:
		mat, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return nil, fmt.Errorf("image to Mat conversion failed: %w", err)
	}

	return safe.Adopt(mat)
}
