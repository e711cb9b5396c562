package views

import (
	"image"

	"filter-workbench/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainView owns the window content: a start screen until the first image is
// loaded, then the dashboard.
type MainView struct {
	window fyne.Window
	title  string

	startScreen *fyne.Container
	startButton *widget.Button
	dashboard   *fyne.Container
	showingDash bool

	toolbar      *components.Toolbar
	imageDisplay *components.ImageDisplay
	operations   *components.OperationGrid
	statusBar    *components.StatusBar

	loadImageHandler func()
	saveImageHandler func()
	operationHandler func(string)
}

func NewMainView(window fyne.Window, title string) *MainView {
	view := &MainView{
		window: window,
		title:  title,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()
	view.window.SetContent(view.startScreen)

	return view
}

func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar(mv.title)
	mv.imageDisplay = components.NewImageDisplay()
	mv.operations = components.NewOperationGrid()
	mv.statusBar = components.NewStatusBar()
	mv.startButton = widget.NewButton("Load Image", nil)
	mv.startButton.Importance = widget.HighImportance
}

func (mv *MainView) buildLayout() {
	welcome := widget.NewLabelWithStyle(mv.title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	hint := widget.NewLabelWithStyle("Load an image to begin", fyne.TextAlignCenter, fyne.TextStyle{})

	mv.startScreen = container.NewCenter(container.NewVBox(welcome, hint, mv.startButton))

	content := container.NewVBox(
		mv.imageDisplay.GetContainer(),
		widget.NewSeparator(),
		mv.operations.GetContainer(),
	)

	mv.dashboard = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		container.NewVScroll(content),
	)
}

func (mv *MainView) setupEventHandlers() {
	load := func() {
		if mv.loadImageHandler != nil {
			mv.loadImageHandler()
		}
	}
	mv.startButton.OnTapped = load
	mv.toolbar.SetLoadHandler(load)

	mv.toolbar.SetSaveHandler(func() {
		if mv.saveImageHandler != nil {
			mv.saveImageHandler()
		}
	})

	mv.operations.SetHandler(func(name string) {
		if mv.operationHandler != nil {
			mv.operationHandler(name)
		}
	})
}

// Event handler setters, called by the controller.

func (mv *MainView) SetLoadImageHandler(handler func()) {
	mv.loadImageHandler = handler
}

func (mv *MainView) SetSaveImageHandler(handler func()) {
	mv.saveImageHandler = handler
}

func (mv *MainView) SetOperationHandler(handler func(string)) {
	mv.operationHandler = handler
}

// SetOperations fills the dashboard button grid.
func (mv *MainView) SetOperations(actions []components.Action) {
	fyne.Do(func() {
		mv.operations.SetActions(actions)
	})
}

// UI update methods, called by the controller.

func (mv *MainView) ShowDashboard() {
	fyne.Do(func() {
		if mv.showingDash {
			return
		}
		mv.window.SetContent(mv.dashboard)
		mv.showingDash = true
	})
}

func (mv *MainView) IsDashboardVisible() bool {
	return mv.showingDash
}

func (mv *MainView) SetOriginalImage(img image.Image) {
	fyne.Do(func() {
		mv.imageDisplay.SetOriginalImage(img)
	})
}

func (mv *MainView) SetProcessedImage(img image.Image) {
	fyne.Do(func() {
		mv.imageDisplay.SetProcessedImage(img)
	})
}

func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

func (mv *MainView) SetImageInfo(width, height, channels int, format string) {
	fyne.Do(func() {
		mv.statusBar.SetImageInfo(width, height, channels, format)
	})
}

func (mv *MainView) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// ShowOpenDialog shows a file picker limited to extensions.
func (mv *MainView) ShowOpenDialog(extensions []string, callback func(fyne.URIReadCloser, error)) {
	fyne.Do(func() {
		d := dialog.NewFileOpen(callback, mv.window)
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		d.Show()
	})
}

// ShowSaveDialog shows a save picker with fileName preselected.
func (mv *MainView) ShowSaveDialog(fileName string, callback func(fyne.URIWriteCloser, error)) {
	fyne.Do(func() {
		d := dialog.NewFileSave(callback, mv.window)
		d.SetFileName(fileName)
		d.Show()
	})
}

// ShowImageWindow opens img at its natural size in a separate window.
func (mv *MainView) ShowImageWindow(title string, img image.Image) fyne.Window {
	w := fyne.CurrentApp().NewWindow(title)
	picture := canvas.NewImageFromImage(img)
	picture.FillMode = canvas.ImageFillOriginal
	w.SetContent(picture)
	fyne.Do(w.Show)
	return w
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) GetOperations() *components.OperationGrid {
	return mv.operations
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

func (mv *MainView) StartButton() *widget.Button {
	return mv.startButton
}
