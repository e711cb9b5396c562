package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filter-workbench/internal/logger"
	"filter-workbench/internal/models"
	"filter-workbench/internal/opencv/conversion"
	"filter-workbench/internal/opencv/safe"

	"fyne.io/fyne/v2"
	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"
)

var (
	ErrNoImage = errors.New("no image loaded")
	ErrDecode  = errors.New("image could not be decoded")
)

// SaveExtensions lists the extensions Save accepts as-is.
var SaveExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// LoadExtensions is the file dialog filter.
var LoadExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// ImageService handles image loading and saving.
type ImageService struct {
	repository  *models.ImageRepository
	logger      logger.Logger
	jpegQuality int
}

func NewImageService(repo *models.ImageRepository, log logger.Logger, jpegQuality int) *ImageService {
	return &ImageService{
		repository:  repo,
		logger:      log,
		jpegQuality: jpegQuality,
	}
}

// DecodeImage reads and decodes an image from a dialog reader without
// touching the repository; pass the result to CommitImage once it has been
// displayed. Local files go through OpenCV by path first; everything else and
// anything OpenCV rejects is decoded by the Go image codecs.
func (is *ImageService) DecodeImage(ctx context.Context, reader fyne.URIReadCloser) (*models.ImageData, error) {
	defer reader.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	uri := reader.URI()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	path := ""
	if uri.Scheme() == "file" {
		path = CleanLoadPath(uri.Path())
	}

	startTime := time.Now()

	mat, detected, err := is.decode(data, path)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		mat.Close()
		return nil, ctx.Err()
	default:
	}

	imageData := models.NewImageData(mat, DetermineFormat(uri.Extension(), detected), uri.String())
	imageData.ProcessTime = time.Since(startTime)

	is.logger.Debug("ImageService", "image decoded", map[string]interface{}{
		"source":    imageData.Source,
		"bytes":     len(data),
		"decode_ms": imageData.ProcessTime.Milliseconds(),
	})

	return imageData, nil
}

// CommitImage makes imageData the loaded original. On failure the repository
// is unchanged and imageData still belongs to the caller.
func (is *ImageService) CommitImage(imageData *models.ImageData) error {
	if err := is.repository.SetOriginalImage(imageData); err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"source":   imageData.Source,
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   imageData.Format,
		"load_ms":  imageData.ProcessTime.Milliseconds(),
	})

	return nil
}

// decode tries OpenCV first and falls back to imaging.Decode. The result is
// always a 3-channel BGR Mat.
func (is *ImageService) decode(data []byte, path string) (*safe.Mat, string, error) {
	mat, err := decodePrimary(data, path)
	if err == nil {
		return mat, "", nil
	}
	is.logger.Debug("ImageService", "primary decoder failed, trying fallback", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
	})

	img, format, err := decodeFallback(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	decoded, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer decoded.Close()

	bgr, err := conversion.ToBGR(decoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	is.logger.Info("ImageService", "image decoded by fallback decoder", map[string]interface{}{
		"format": format,
	})
	return bgr, format, nil
}

func decodePrimary(data []byte, path string) (*safe.Mat, error) {
	if path != "" {
		if mat, err := safe.Adopt(gocv.IMRead(path, gocv.IMReadColor)); err == nil {
			return mat, nil
		}
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no data to decode")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		mat.Close()
		return nil, err
	}
	return safe.Adopt(mat)
}

func decodeFallback(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// SaveImage encodes imageData to writer in the given format.
func (is *ImageService) SaveImage(ctx context.Context, writer io.Writer, imageData *models.ImageData, format string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if imageData == nil || !imageData.Mat.IsValid() {
		return fmt.Errorf("no image data to save: %w", ErrNoImage)
	}

	img, err := conversion.MatToImage(imageData.Mat)
	if err != nil {
		return err
	}

	return is.saveToWriter(writer, img, format)
}

// SaveImageFile writes imageData to path after extension normalisation and
// returns the path actually written. The image is encoded to a temporary file
// in the same directory and renamed over path only once encoding succeeded,
// so a failed save never clobbers an existing file.
func (is *ImageService) SaveImageFile(ctx context.Context, path string, imageData *models.ImageData) (string, error) {
	path = NormalizeSavePath(path)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	err = is.SaveImage(ctx, tmp, imageData, DetermineFormat(filepath.Ext(path), ""))
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"path":      path,
		"operation": imageData.Operation,
		"width":     imageData.Width,
		"height":    imageData.Height,
		"channels":  imageData.Channels,
	})
	return path, nil
}

func (is *ImageService) saveToWriter(writer io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return jpeg.Encode(writer, img, &jpeg.Options{Quality: is.jpegQuality})
	case "bmp":
		return bmp.Encode(writer, img)
	default:
		return png.Encode(writer, img)
	}
}

// NormalizeSavePath appends .png unless path already ends in a supported
// extension.
func NormalizeSavePath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, ok := range SaveExtensions {
		if ext == ok {
			return path
		}
	}
	return path + ".png"
}

// CleanLoadPath cleans path and, when the file does not exist as given,
// strips a cloud-sync "prefix@provider:suffix" artefact down to
// prefix+suffix.
func CleanLoadPath(path string) string {
	cleaned := filepath.Clean(path)
	if !strings.Contains(cleaned, "@") {
		return cleaned
	}
	if _, err := os.Stat(cleaned); err == nil {
		return cleaned
	}

	parts := strings.Split(cleaned, "@")
	tail := parts[len(parts)-1]
	if i := strings.LastIndex(tail, ":"); i >= 0 {
		tail = tail[i+1:]
	}
	return filepath.Clean(parts[0] + tail)
}

// DetermineFormat maps an extension to a format name, falling back to the
// detected format and then png.
func DetermineFormat(extension, detectedFormat string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	default:
		if detectedFormat != "" {
			return detectedFormat
		}
		return "png"
	}
}
