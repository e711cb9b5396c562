package conversion

import (
	"image"

	"filter-workbench/internal/opencv/safe"

	"github.com/disintegration/imaging"
)

// RenderForDisplay converts src to an RGB image and shrinks it with a Lanczos
// filter to fit inside maxWidth x maxHeight, keeping the aspect ratio. Images
// that already fit are returned at their own size.
func RenderForDisplay(src *safe.Mat, maxWidth, maxHeight int) (image.Image, error) {
	img, err := MatToImage(src)
	if err != nil {
		return nil, err
	}

	return FitToViewport(img, maxWidth, maxHeight), nil
}

// FitToViewport downscales img to the bounding box. It never upscales.
func FitToViewport(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth && bounds.Dy() <= maxHeight {
		return img
	}

	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
