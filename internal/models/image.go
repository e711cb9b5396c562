package models

import (
	"sync"
	"time"

	"filter-workbench/internal/opencv/safe"
)

// ImageData is a raster together with where it came from.
type ImageData struct {
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
	Source   string
	LoadTime time.Time

	// Operation names the filter that produced the raster; empty for a
	// freshly loaded image.
	Operation   string
	ProcessTime time.Duration
}

// NewImageData fills the geometry fields from mat.
func NewImageData(mat *safe.Mat, format, source string) *ImageData {
	return &ImageData{
		Mat:      mat,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   format,
		Source:   source,
		LoadTime: time.Now(),
	}
}

// Release closes the underlying Mat.
func (d *ImageData) Release() {
	if d != nil && d.Mat != nil {
		d.Mat.Close()
	}
}

// ImageRepository holds the loaded original and the current result.
type ImageRepository struct {
	mu       sync.RWMutex
	original *ImageData
	result   *ImageData
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{}
}

// SetOriginalImage replaces both references: the result starts as a copy of
// the new original. Prior images are released.
func (r *ImageRepository) SetOriginalImage(img *ImageData) error {
	clone, err := img.Mat.Clone()
	if err != nil {
		return err
	}

	result := *img
	result.Mat = clone

	r.mu.Lock()
	defer r.mu.Unlock()

	r.original.Release()
	r.result.Release()
	r.original = img
	r.result = &result
	return nil
}

func (r *ImageRepository) GetOriginalImage() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.original
}

// SetResult replaces the current result and releases the previous one.
func (r *ImageRepository) SetResult(img *ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result != nil && r.result != img {
		r.result.Release()
	}
	r.result = img
}

func (r *ImageRepository) GetResult() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.result
}

func (r *ImageRepository) HasImage() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.original != nil
}

// ClearAll releases both images.
func (r *ImageRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.original.Release()
	r.result.Release()
	r.original = nil
	r.result = nil
}

// GetImageStats reports what is held in memory.
func (r *ImageRepository) GetImageStats() ImageStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := ImageStats{
		HasOriginal: r.original != nil,
		HasResult:   r.result != nil,
	}
	for _, img := range []*ImageData{r.original, r.result} {
		if img != nil {
			stats.TotalMemoryUsage += int64(img.Width * img.Height * img.Channels)
		}
	}
	if r.result != nil {
		stats.ResultOperation = r.result.Operation
	}
	return stats
}

type ImageStats struct {
	HasOriginal      bool
	HasResult        bool
	ResultOperation  string
	TotalMemoryUsage int64
}

// Shutdown releases all resources.
func (r *ImageRepository) Shutdown() {
	r.ClearAll()
}
