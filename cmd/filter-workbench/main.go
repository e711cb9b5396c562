package main

import (
	"fmt"
	"os"
	"runtime"

	"filter-workbench/internal/config"
	"filter-workbench/internal/controllers"
	"filter-workbench/internal/logger"
	"filter-workbench/internal/models"
	"filter-workbench/internal/processing/filters"
	"filter-workbench/internal/services"
	"filter-workbench/internal/shutdown"
	"filter-workbench/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Filter Workbench"
	AppID      = "com.imageprocessing.filter-workbench"
	AppVersion = "1.0.0"
)

// Application holds the object graph for one run.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	cfg     config.Config

	controller *controllers.MainController
	view       *views.MainView

	imageService      *services.ImageService
	processingService *services.ProcessingService

	imageRepo *models.ImageRepository
	statsRepo *models.ProcessingStatsRepository

	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	application := NewApplication(cfg)
	application.Run()
}

// NewApplication wires repositories, services, view and controller.
func NewApplication(cfg config.Config) *Application {
	appLogger := logger.New(cfg.LogFormat, cfg.LogLevel)

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(cfg.WindowSize)
	window.CenterOnScreen()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":     AppVersion,
		"window_size": fmt.Sprintf("%.0fx%.0f", cfg.WindowSize.Width, cfg.WindowSize.Height),
		"viewport":    fmt.Sprintf("%dx%d", cfg.ViewWidth, cfg.ViewHeight),
		"threshold":   cfg.Threshold,
		"go_version":  runtime.Version(),
		"log_level":   cfg.LogLevel.String(),
	})

	imageRepo := models.NewImageRepository()
	statsRepo := models.NewProcessingStatsRepository()

	registry := filters.NewDefaultRegistry(filters.Settings{
		Threshold:     cfg.Threshold,
		Brightness:    cfg.Brightness,
		BrightnessHSV: cfg.BrightnessHSV,
	})

	imageService := services.NewImageService(imageRepo, appLogger, cfg.JPEGQuality)
	processingService := services.NewProcessingService(registry, imageRepo, statsRepo, appLogger)

	mainView := views.NewMainView(window, AppName)
	mainController := controllers.NewMainController(imageService, processingService, imageRepo, appLogger, cfg)
	mainController.SetMainView(mainView)

	manager := shutdown.NewManager(appLogger)
	manager.Register("image repository", imageRepo)
	manager.Register("controller", mainController)

	application := &Application{
		fyneApp:           fyneApp,
		window:            window,
		logger:            appLogger,
		cfg:               cfg,
		controller:        mainController,
		view:              mainView,
		imageService:      imageService,
		processingService: processingService,
		imageRepo:         imageRepo,
		statsRepo:         statsRepo,
		shutdown:          manager,
	}

	application.setupWindowEvents()
	application.setupEventListeners()

	// Registered last so it runs first, while the images are still held.
	manager.Register("stats", shutdown.Func(application.logStats))

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"operations": len(registry.Entries()),
	})

	return application
}

// Run shows the window and blocks until the Fyne event loop exits.
func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if !a.imageRepo.HasImage() {
			a.window.Close()
			return
		}

		a.view.ShowConfirm("Exit Application", "Are you sure you want to exit?", func(confirmed bool) {
			if confirmed {
				a.window.Close()
			}
		})
	})
}

// setupEventListeners logs load and apply events and shows the saved path in the title.
func (a *Application) setupEventListeners() {
	a.controller.AddEventListener(controllers.EventImageLoaded, func(data interface{}) error {
		images := a.imageRepo.GetImageStats()
		a.logger.Debug("Application", "image in memory", map[string]interface{}{
			"memory_bytes": images.TotalMemoryUsage,
		})
		return nil
	})

	a.controller.AddEventListener(controllers.EventOperationApplied, func(data interface{}) error {
		result, ok := data.(*models.ImageData)
		if !ok {
			return fmt.Errorf("unexpected payload %T", data)
		}
		stats := a.processingService.GetProcessingStats()
		a.logger.Debug("Application", "operation stats", map[string]interface{}{
			"operation":        result.Operation,
			"duration_ms":      result.ProcessTime.Milliseconds(),
			"total_processed":  stats.TotalProcessed,
			"total_failed":     stats.TotalFailed,
			"avg_operation_ms": stats.AverageTime.Milliseconds(),
		})
		return nil
	})

	a.controller.AddEventListener(controllers.EventImageSaved, func(data interface{}) error {
		a.window.SetTitle(fmt.Sprintf("%s - %v", AppName, data))
		return nil
	})
}

func (a *Application) logStats() {
	stats := a.processingService.GetProcessingStats()
	images := a.imageRepo.GetImageStats()

	a.logger.Info("Application", "terminated", map[string]interface{}{
		"operations_applied": stats.TotalProcessed,
		"operations_failed":  stats.TotalFailed,
		"avg_operation_ms":   stats.AverageTime.Milliseconds(),
		"memory_bytes":       images.TotalMemoryUsage,
	})
}
