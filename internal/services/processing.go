package services

import (
	"context"
	"fmt"
	"time"

	"filter-workbench/internal/logger"
	"filter-workbench/internal/models"
	"filter-workbench/internal/processing/filters"
	"filter-workbench/internal/processing/histogram"
)

// ProcessingService runs one registry filter on the loaded original and makes
// its output the current result.
type ProcessingService struct {
	registry   *filters.Registry
	repository *models.ImageRepository
	stats      *models.ProcessingStatsRepository
	logger     logger.Logger
}

func NewProcessingService(
	registry *filters.Registry,
	repo *models.ImageRepository,
	stats *models.ProcessingStatsRepository,
	log logger.Logger,
) *ProcessingService {
	return &ProcessingService{
		registry:   registry,
		repository: repo,
		stats:      stats,
		logger:     log,
	}
}

// Operations lists the registered filters in dashboard order.
func (ps *ProcessingService) Operations() []filters.Entry {
	return ps.registry.Entries()
}

// Apply runs the named filter on the loaded original. The result is not
// stored; pass it to CommitResult once it has been displayed, or Release it.
func (ps *ProcessingService) Apply(ctx context.Context, name string) (*models.ImageData, error) {
	original := ps.repository.GetOriginalImage()
	if original == nil {
		return nil, ErrNoImage
	}

	startTime := time.Now()
	mat, err := ps.registry.Apply(ctx, name, original.Mat)
	if err != nil {
		ps.stats.RecordFailure(name, err)
		return nil, err
	}
	elapsed := time.Since(startTime)

	result := models.NewImageData(mat, original.Format, original.Source)
	result.Operation = name
	result.ProcessTime = elapsed

	ps.stats.RecordSuccess(name, elapsed)

	ps.logger.Debug("ProcessingService", "operation applied", map[string]interface{}{
		"operation": name,
		"width":     result.Width,
		"height":    result.Height,
		"channels":  result.Channels,
		"duration":  elapsed.String(),
	})

	return result, nil
}

// CommitResult makes result the current result, releasing the previous one.
func (ps *ProcessingService) CommitResult(result *models.ImageData) {
	ps.repository.SetResult(result)
}

// Histogram computes the per-channel histogram of the loaded original.
func (ps *ProcessingService) Histogram(ctx context.Context) (*histogram.Histogram, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	original := ps.repository.GetOriginalImage()
	if original == nil {
		return nil, ErrNoImage
	}

	h, err := histogram.Compute(original.Mat)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	return h, nil
}

func (ps *ProcessingService) GetProcessingStats() models.ProcessingStats {
	return ps.stats.GetStats()
}
