package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// OperationColumns is the width of the operation grid.
const OperationColumns = 2

// Action is one dashboard button.
type Action struct {
	Name  string
	Label string
}

// OperationGrid lays out one button per action and reports taps by name.
type OperationGrid struct {
	container *fyne.Container
	buttons   map[string]*widget.Button
	order     []string
	handler   func(name string)
}

func NewOperationGrid() *OperationGrid {
	return &OperationGrid{
		container: container.NewGridWithColumns(OperationColumns),
		buttons:   make(map[string]*widget.Button),
	}
}

// SetActions rebuilds the grid in the given order.
func (og *OperationGrid) SetActions(actions []Action) {
	og.buttons = make(map[string]*widget.Button, len(actions))
	og.order = og.order[:0]
	objects := make([]fyne.CanvasObject, 0, len(actions))

	for _, action := range actions {
		name := action.Name
		button := widget.NewButton(action.Label, func() {
			if og.handler != nil {
				og.handler(name)
			}
		})
		og.buttons[name] = button
		og.order = append(og.order, name)
		objects = append(objects, button)
	}

	og.container.Objects = objects
	og.container.Refresh()
}

func (og *OperationGrid) SetHandler(handler func(name string)) {
	og.handler = handler
}

// Button returns the button for name, or nil.
func (og *OperationGrid) Button(name string) *widget.Button {
	return og.buttons[name]
}

// Names returns action names in display order.
func (og *OperationGrid) Names() []string {
	return append([]string(nil), og.order...)
}

func (og *OperationGrid) GetContainer() *fyne.Container {
	return og.container
}
