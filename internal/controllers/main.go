package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"filter-workbench/internal/config"
	"filter-workbench/internal/logger"
	"filter-workbench/internal/models"
	"filter-workbench/internal/opencv/conversion"
	"filter-workbench/internal/processing/filters"
	"filter-workbench/internal/processing/histogram"
	"filter-workbench/internal/services"
	"filter-workbench/internal/views"
	"filter-workbench/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

const (
	// OperationHistogram is dispatched to the histogram window instead of
	// the filter registry.
	OperationHistogram = "histogram"

	DefaultSaveName  = "result.png"
	HistogramTitle   = "Histogram"
	histogramWidth   = 800
	histogramHeight  = 600
	operationTimeout = 30 * time.Second
)

// Event names emitted to listeners.
const (
	EventImageLoaded      = "image_loaded"
	EventOperationApplied = "operation_applied"
	EventImageSaved       = "image_saved"
)

// EventHandler receives the payload of an emitted event.
type EventHandler func(data interface{}) error

// MainController connects the view to the image and processing services.
type MainController struct {
	imageService      *services.ImageService
	processingService *services.ProcessingService
	imageRepo         *models.ImageRepository
	logger            logger.Logger
	cfg               config.Config

	mainView *views.MainView

	ctx    context.Context
	cancel context.CancelFunc

	eventHandlers map[string][]EventHandler
	eventMu       sync.RWMutex
}

func NewMainController(
	imageService *services.ImageService,
	processingService *services.ProcessingService,
	imageRepo *models.ImageRepository,
	log logger.Logger,
	cfg config.Config,
) *MainController {
	ctx, cancel := context.WithCancel(context.Background())
	return &MainController{
		imageService:      imageService,
		processingService: processingService,
		imageRepo:         imageRepo,
		logger:            log,
		cfg:               cfg,
		ctx:               ctx,
		cancel:            cancel,
		eventHandlers:     make(map[string][]EventHandler),
	}
}

// SetMainView associates the view and wires its callbacks.
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	view.SetLoadImageHandler(mc.LoadImage)
	view.SetSaveImageHandler(mc.SaveImage)
	view.SetOperationHandler(mc.RunOperation)
	view.SetOperations(mc.Actions())
}

// Actions lists the dashboard buttons: every registry filter in order, with
// the histogram placed after the logical NOT.
func (mc *MainController) Actions() []components.Action {
	entries := mc.processingService.Operations()
	actions := make([]components.Action, 0, len(entries)+1)
	placed := false

	for _, entry := range entries {
		actions = append(actions, components.Action{Name: entry.Name, Label: entry.Label})
		if entry.Name == filters.OpNot {
			actions = append(actions, components.Action{Name: OperationHistogram, Label: HistogramTitle})
			placed = true
		}
	}
	if !placed {
		actions = append(actions, components.Action{Name: OperationHistogram, Label: HistogramTitle})
	}
	return actions
}

// LoadImage shows the file-open dialog.
func (mc *MainController) LoadImage() {
	mc.mainView.ShowOpenDialog(services.LoadExtensions, func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mc.handleError("Image load failed", err)
			return
		}
		if reader == nil {
			mc.logger.Debug("MainController", "load dialog cancelled", nil)
			return
		}
		mc.LoadFromReader(reader)
	})
}

// LoadFromReader loads the image behind reader and switches to the dashboard.
// The repository is only updated once the image has been rendered, so a
// failure leaves the previous original, result and panes as they were.
func (mc *MainController) LoadFromReader(reader fyne.URIReadCloser) {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	mc.mainView.UpdateStatus("Loading image...")

	imageData, err := mc.imageService.DecodeImage(ctx, reader)
	if err != nil {
		mc.handleError("Image load failed", err)
		mc.mainView.UpdateStatus("Ready")
		return
	}

	display, err := conversion.RenderForDisplay(imageData.Mat, mc.cfg.ViewWidth, mc.cfg.ViewHeight)
	if err != nil {
		imageData.Release()
		mc.handleError("Image display failed", err)
		return
	}

	if err := mc.imageService.CommitImage(imageData); err != nil {
		imageData.Release()
		mc.handleError("Image load failed", err)
		return
	}

	mc.mainView.ShowDashboard()
	mc.mainView.SetOriginalImage(display)
	mc.mainView.SetProcessedImage(display)
	mc.mainView.SetImageInfo(imageData.Width, imageData.Height, imageData.Channels, imageData.Format)
	mc.mainView.UpdateStatus("Image loaded")

	mc.emitEvent(EventImageLoaded, imageData)
}

// RunOperation applies the named operation to the loaded original. The output
// becomes the current result only after it has been rendered.
func (mc *MainController) RunOperation(name string) {
	if !mc.imageRepo.HasImage() {
		mc.mainView.UpdateStatus("Load an image first")
		return
	}

	if name == OperationHistogram {
		mc.ShowHistogram()
		return
	}

	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	result, err := mc.processingService.Apply(ctx, name)
	if err != nil {
		mc.handleError("Operation failed", err)
		return
	}

	display, err := conversion.RenderForDisplay(result.Mat, mc.cfg.ViewWidth, mc.cfg.ViewHeight)
	if err != nil {
		result.Release()
		mc.handleError("Image display failed", err)
		return
	}

	mc.processingService.CommitResult(result)
	mc.mainView.SetProcessedImage(display)
	mc.mainView.UpdateStatus(fmt.Sprintf("Applied %s (%d ms)", name, result.ProcessTime.Milliseconds()))

	mc.emitEvent(EventOperationApplied, result)
}

// ShowHistogram plots the original's histogram in its own window.
func (mc *MainController) ShowHistogram() fyne.Window {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	h, err := mc.processingService.Histogram(ctx)
	if err != nil {
		mc.handleError("Histogram failed", err)
		return nil
	}

	plot, err := histogram.Plot(h, histogramWidth, histogramHeight)
	if err != nil {
		mc.handleError("Histogram failed", err)
		return nil
	}

	mc.mainView.UpdateStatus("Histogram shown")
	return mc.mainView.ShowImageWindow(HistogramTitle, plot)
}

// SaveImage shows the file-save dialog for the current result.
func (mc *MainController) SaveImage() {
	if mc.imageRepo.GetResult() == nil {
		mc.mainView.UpdateStatus("Load an image first")
		return
	}

	mc.mainView.ShowSaveDialog(DefaultSaveName, func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mc.handleError("Image save failed", err)
			return
		}
		if writer == nil {
			mc.logger.Debug("MainController", "save dialog cancelled", nil)
			return
		}
		mc.SaveToWriter(writer)
	})
}

// SaveToWriter writes the current result. When the chosen name lacks a
// supported extension the dialog's file is removed and the image is written
// next to it with .png appended.
func (mc *MainController) SaveToWriter(writer fyne.URIWriteCloser) {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	result := mc.imageRepo.GetResult()
	if result == nil {
		writer.Close()
		mc.handleError("Image save failed", services.ErrNoImage)
		return
	}

	uri := writer.URI()
	path, err := mc.writeResult(ctx, writer, uri, result)
	if err != nil {
		mc.handleError("Image save failed", err)
		mc.mainView.UpdateStatus("Save failed")
		return
	}

	mc.mainView.UpdateStatus("Image saved")
	mc.mainView.ShowInfo("Image Saved", fmt.Sprintf("Image saved to %s", path))
	mc.emitEvent(EventImageSaved, path)
}

func (mc *MainController) writeResult(ctx context.Context, writer fyne.URIWriteCloser, uri fyne.URI, result *models.ImageData) (string, error) {
	original := uri.Path()
	normalized := services.NormalizeSavePath(original)

	if normalized != original && uri.Scheme() == "file" {
		writer.Close()
		if err := storage.Delete(uri); err != nil {
			mc.logger.Warning("MainController", "could not remove unsuffixed save target", map[string]interface{}{
				"path":  original,
				"error": err.Error(),
			})
		}
		return mc.imageService.SaveImageFile(ctx, normalized, result)
	}

	err := mc.imageService.SaveImage(ctx, writer, result, services.DetermineFormat(uri.Extension(), ""))
	if cerr := writer.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	mc.logger.Info("MainController", "image saved", map[string]interface{}{
		"uri":       uri.String(),
		"operation": result.Operation,
	})
	return original, nil
}

// AddEventListener registers handler for eventType.
func (mc *MainController) AddEventListener(eventType string, handler EventHandler) {
	mc.eventMu.Lock()
	defer mc.eventMu.Unlock()

	mc.eventHandlers[eventType] = append(mc.eventHandlers[eventType], handler)
}

func (mc *MainController) emitEvent(eventType string, data interface{}) {
	mc.eventMu.RLock()
	handlers := append([]EventHandler(nil), mc.eventHandlers[eventType]...)
	mc.eventMu.RUnlock()

	for _, handler := range handlers {
		if err := handler(data); err != nil {
			mc.logger.Warning("MainController", "event handler failed", map[string]interface{}{
				"event": eventType,
				"error": err.Error(),
			})
		}
	}
}

// handleError logs err and surfaces it in an error dialog.
func (mc *MainController) handleError(title string, err error) {
	fields := map[string]interface{}{"title": title}
	if errors.Is(err, context.Canceled) {
		mc.logger.Debug("MainController", "operation cancelled", fields)
		return
	}

	mc.logger.Error("MainController", err, fields)
	if mc.mainView != nil {
		mc.mainView.ShowError(fmt.Errorf("%s: %w", title, err))
	}
}

// Shutdown cancels in-flight operations and releases held images.
func (mc *MainController) Shutdown() {
	mc.cancel()
	mc.imageRepo.ClearAll()
	mc.logger.Info("MainController", "controller shut down", nil)
}
