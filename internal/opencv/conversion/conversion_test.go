package conversion

import (
	"image"
	"image/color"
	"testing"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

func solidBGR(t *testing.T, rows, cols int, b, g, r float64) *safe.Mat {
	t.Helper()
	m, err := safe.Adopt(gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3))
	if err != nil {
		t.Fatalf("solid Mat: %v", err)
	}
	return m
}

func TestMatToImageBGROrdering(t *testing.T) {
	m := solidBGR(t, 2, 3, 10, 20, 30)
	defer m.Close()

	img, err := MatToImage(m)
	if err != nil {
		t.Fatalf("MatToImage: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", img.Bounds())
	}

	r, g, b, _ := img.At(1, 1).RGBA()
	if uint8(r>>8) != 30 || uint8(g>>8) != 20 || uint8(b>>8) != 10 {
		t.Errorf("pixel = (%d,%d,%d), want (30,20,10)", r>>8, g>>8, b>>8)
	}
}

func TestImageToMatRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}

	m, err := ImageToMat(img)
	if err != nil {
		t.Fatalf("ImageToMat: %v", err)
	}
	defer m.Close()

	if m.Channels() != 3 {
		t.Fatalf("channels = %d, want 3", m.Channels())
	}

	// BGR layout: channel 2 holds red.
	red, err := m.GetUCharAt3(0, 3, 2)
	if err != nil {
		t.Fatalf("GetUCharAt3: %v", err)
	}
	if red != 120 {
		t.Errorf("red at (3,0) = %d, want 120", red)
	}

	back, err := MatToImage(m)
	if err != nil {
		t.Fatalf("MatToImage: %v", err)
	}
	r, g, b, _ := back.At(2, 3).RGBA()
	if uint8(r>>8) != 80 || uint8(g>>8) != 120 || uint8(b>>8) != 200 {
		t.Errorf("round trip pixel = (%d,%d,%d), want (80,120,200)", r>>8, g>>8, b>>8)
	}
}

func TestImageToMatGrayStaysSingleChannel(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	img.SetGray(2, 2, color.Gray{Y: 99})

	m, err := ImageToMat(img)
	if err != nil {
		t.Fatalf("ImageToMat: %v", err)
	}
	defer m.Close()

	if m.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", m.Channels())
	}
	v, _ := m.GetUCharAt(2, 2)
	if v != 99 {
		t.Errorf("value = %d, want 99", v)
	}
}

func TestImageToMatNil(t *testing.T) {
	if _, err := ImageToMat(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}

func TestToGrayAndToBGR(t *testing.T) {
	m := solidBGR(t, 3, 3, 0, 0, 255)
	defer m.Close()

	gray, err := ToGray(m)
	if err != nil {
		t.Fatalf("ToGray: %v", err)
	}
	defer gray.Close()
	if gray.Channels() != 1 {
		t.Fatalf("gray channels = %d, want 1", gray.Channels())
	}

	bgr, err := ToBGR(gray)
	if err != nil {
		t.Fatalf("ToBGR: %v", err)
	}
	defer bgr.Close()
	if bgr.Channels() != 3 {
		t.Fatalf("bgr channels = %d, want 3", bgr.Channels())
	}

	if _, err := Convert(gray, gocv.ColorBGRToHSV); err == nil {
		t.Error("expected channel validation error for HSV from gray")
	}
}

func TestFitToViewport(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"fits already", 400, 300, 400, 300},
		{"exact box", 800, 600, 800, 600},
		{"too wide", 1600, 600, 800, 300},
		{"too tall", 600, 1200, 300, 600},
		{"both", 2000, 2000, 600, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))
			out := FitToViewport(img, 800, 600)
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderForDisplayGray(t *testing.T) {
	m, err := safe.Adopt(gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 0, 0, 0), 1200, 1000, gocv.MatTypeCV8UC1))
	if err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	defer m.Close()

	img, err := RenderForDisplay(m, 800, 600)
	if err != nil {
		t.Fatalf("RenderForDisplay: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > 800 || b.Dy() > 600 {
		t.Errorf("rendered %dx%d exceeds 800x600", b.Dx(), b.Dy())
	}
	if b.Dy() != 600 || b.Dx() != 500 {
		t.Errorf("rendered %dx%d, want 500x600", b.Dx(), b.Dy())
	}
}
