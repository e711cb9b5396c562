package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Toolbar is the dashboard header: title, "Load Another" and "Save Result".
type Toolbar struct {
	container  *fyne.Container
	title      *widget.Label
	loadButton *widget.Button
	saveButton *widget.Button

	loadHandler func()
	saveHandler func()
}

func NewToolbar(title string) *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents(title)
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents(title string) {
	t.title = widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	t.loadButton = widget.NewButton("Load Another", nil)

	t.saveButton = widget.NewButton("Save Result", nil)
	t.saveButton.Importance = widget.HighImportance
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.title,
		layout.NewSpacer(),
		t.loadButton,
		widget.NewSeparator(),
		t.saveButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.loadButton.OnTapped = func() {
		if t.loadHandler != nil {
			t.loadHandler()
		}
	}

	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}
}

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) LoadButton() *widget.Button {
	return t.loadButton
}

func (t *Toolbar) SaveButton() *widget.Button {
	return t.saveButton
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
