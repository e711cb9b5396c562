package components

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestImageDisplayPanes(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	id := NewImageDisplay()
	if id.HasOriginalImage() || id.HasProcessedImage() {
		t.Fatal("new display should show placeholders")
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	id.SetOriginalImage(img)
	id.SetProcessedImage(img)
	if !id.HasOriginalImage() || id.ProcessedImage() != img {
		t.Fatal("images were not set")
	}

	id.SetOriginalImage(nil)
	id.SetProcessedImage(nil)
	if id.HasOriginalImage() || id.ProcessedImage() != nil {
		t.Error("a nil image should restore the placeholder")
	}
}

func TestOperationGridLayout(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	og := NewOperationGrid()
	og.SetActions([]Action{
		{Name: "a", Label: "A"},
		{Name: "b", Label: "B"},
		{Name: "c", Label: "C"},
	})

	if n := len(og.GetContainer().Objects); n != 3 {
		t.Fatalf("objects = %d, want 3", n)
	}
	names := og.Names()
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("names = %v", names)
	}

	og.SetActions([]Action{{Name: "z", Label: "Z"}})
	if og.Button("a") != nil || og.Button("z") == nil {
		t.Error("SetActions should replace the previous buttons")
	}
}
