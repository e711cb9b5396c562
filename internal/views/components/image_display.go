package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/disintegration/imaging"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 360
)

// ImageDisplay shows the original and the current result side by side.
type ImageDisplay struct {
	container      *fyne.Container
	originalImage  *canvas.Image
	processedImage *canvas.Image
	placeholder    image.Image

	hasOriginal  bool
	hasProcessed bool
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{
		placeholder: imaging.New(ImageAreaWidth, ImageAreaHeight, color.NRGBA{R: 240, G: 240, B: 240, A: 255}),
	}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = id.newPane()
	id.processedImage = id.newPane()
}

func (id *ImageDisplay) newPane() *canvas.Image {
	img := canvas.NewImageFromImage(id.placeholder)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original Image**"),
		nil, nil, nil,
		container.NewStack(id.createImageBackground(), id.originalImage),
	)

	processedContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Processed Result**"),
		nil, nil, nil,
		container.NewStack(id.createImageBackground(), id.processedImage),
	)

	id.container = container.NewGridWithColumns(2, originalContainer, processedContainer)
}

func (id *ImageDisplay) createImageBackground() *canvas.Rectangle {
	return canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255})
}

// SetOriginalImage replaces the left pane. nil restores the placeholder.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.hasOriginal = id.setPane(id.originalImage, img)
}

// SetProcessedImage replaces the right pane. nil restores the placeholder.
func (id *ImageDisplay) SetProcessedImage(img image.Image) {
	id.hasProcessed = id.setPane(id.processedImage, img)
}

func (id *ImageDisplay) setPane(pane *canvas.Image, img image.Image) bool {
	if img == nil {
		pane.Image = id.placeholder
	} else {
		pane.Image = img
	}
	pane.Refresh()
	return img != nil
}

func (id *ImageDisplay) HasOriginalImage() bool {
	return id.hasOriginal
}

func (id *ImageDisplay) HasProcessedImage() bool {
	return id.hasProcessed
}

// ProcessedImage returns the image currently shown in the result pane.
func (id *ImageDisplay) ProcessedImage() image.Image {
	if !id.hasProcessed {
		return nil
	}
	return id.processedImage.Image
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
