package filters

import (
	"context"
	"errors"
	"testing"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// patternBGR builds a 3-channel Mat whose pixel at (row, col) is fn(row, col).
func patternBGR(t *testing.T, rows, cols int, fn func(r, c int) (b, g, rd uint8)) *safe.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b, g, rd := fn(r, c)
			mat.SetUCharAt3(r, c, 0, b)
			mat.SetUCharAt3(r, c, 1, g)
			mat.SetUCharAt3(r, c, 2, rd)
		}
	}
	m, err := safe.Adopt(mat)
	if err != nil {
		t.Fatalf("patternBGR: %v", err)
	}
	return m
}

func patternGray(t *testing.T, rows, cols int, fn func(r, c int) uint8) *safe.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			mat.SetUCharAt(r, c, fn(r, c))
		}
	}
	m, err := safe.Adopt(mat)
	if err != nil {
		t.Fatalf("patternGray: %v", err)
	}
	return m
}

func countForeground(t *testing.T, m *safe.Mat) int {
	t.Helper()
	n := 0
	for _, v := range m.Bytes() {
		if v == 255 {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGrayscaleLuminance(t *testing.T) {
	input := patternBGR(t, 4, 4, func(r, c int) (uint8, uint8, uint8) {
		return uint8(r * 50), uint8(c * 60), uint8(200 - r*30)
	})
	defer input.Close()

	out, err := NewGrayscaleConverter().Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	if out.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", out.Channels())
	}

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			b, g, rd := float64(r*50), float64(c*60), float64(200-r*30)
			want := int(0.299*rd + 0.587*g + 0.114*b + 0.5)
			got, _ := out.GetUCharAt(r, c)
			if abs(int(got)-want) > 1 {
				t.Errorf("(%d,%d) = %d, want %d±1", r, c, got, want)
			}
		}
	}
}

func TestGrayscaleIsDeterministic(t *testing.T) {
	input := patternBGR(t, 8, 8, func(r, c int) (uint8, uint8, uint8) {
		return uint8(r * 31), uint8(c * 17), uint8(r * c)
	})
	defer input.Close()

	a, err := NewGrayscaleConverter().Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer a.Close()
	b, err := NewGrayscaleConverter().Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer b.Close()

	if string(a.Bytes()) != string(b.Bytes()) {
		t.Error("grayscale conversion is not deterministic")
	}
}

func TestBinaryThreshold(t *testing.T) {
	levels := []int{0, 1, 127, 128, 200, 255, 256}

	input := patternBGR(t, 1, 256, func(_, c int) (uint8, uint8, uint8) {
		v := uint8(c)
		return v, v, v
	})
	defer input.Close()

	for _, level := range levels {
		out, err := NewBinaryFilter(level).Apply(context.Background(), input)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}

		for c := 0; c < 256; c++ {
			v, _ := out.GetUCharAt(0, c)
			if v != 0 && v != 255 {
				t.Fatalf("level %d: sample %d = %d, want 0 or 255", level, c, v)
			}
			if want := c >= level; (v == 255) != want {
				t.Errorf("level %d: sample %d = %d", level, c, v)
			}
		}
		out.Close()
	}
}

func TestThresholdRejectsColour(t *testing.T) {
	input := patternBGR(t, 2, 2, func(int, int) (uint8, uint8, uint8) { return 1, 2, 3 })
	defer input.Close()

	if _, err := NewThresholdFilter(128).Apply(context.Background(), input); err == nil {
		t.Fatal("expected error thresholding a 3-channel image directly")
	}
}

func TestBrightnessClamps(t *testing.T) {
	input := patternBGR(t, 1, 3, func(_, c int) (uint8, uint8, uint8) {
		switch c {
		case 0:
			return 10, 20, 30
		case 1:
			return 230, 240, 250
		default:
			return 255, 255, 255
		}
	})
	defer input.Close()

	out, err := NewBrightnessFilter(30).Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	want := [][3]uint8{{40, 50, 60}, {255, 255, 255}, {255, 255, 255}}
	for c, px := range want {
		for ch := 0; ch < 3; ch++ {
			got, _ := out.GetUCharAt3(0, c, ch)
			if got != px[ch] {
				t.Errorf("pixel %d channel %d = %d, want %d", c, ch, got, px[ch])
			}
		}
	}
}

func TestBrightnessRejectsOutOfRangeDelta(t *testing.T) {
	input := patternGray(t, 2, 2, func(int, int) uint8 { return 0 })
	defer input.Close()

	if _, err := NewBrightnessFilter(300).Apply(context.Background(), input); err == nil {
		t.Fatal("expected error for delta 300")
	}
}

func TestHSVBrightnessOnNeutralColour(t *testing.T) {
	input := patternBGR(t, 2, 2, func(int, int) (uint8, uint8, uint8) { return 100, 100, 100 })
	defer input.Close()

	out, err := NewHSVBrightnessFilter(50).Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	for ch := 0; ch < 3; ch++ {
		got, _ := out.GetUCharAt3(1, 1, ch)
		if abs(int(got)-150) > 1 {
			t.Errorf("channel %d = %d, want 150±1", ch, got)
		}
	}
}

func TestHSVBrightnessClamps(t *testing.T) {
	input := patternBGR(t, 1, 1, func(int, int) (uint8, uint8, uint8) { return 240, 240, 240 })
	defer input.Close()

	out, err := NewHSVBrightnessFilter(50).Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	got, _ := out.GetUCharAt3(0, 0, 0)
	if got != 255 {
		t.Errorf("value = %d, want 255", got)
	}
}

func TestInvertIsInvolution(t *testing.T) {
	input := patternBGR(t, 16, 16, func(r, c int) (uint8, uint8, uint8) {
		return uint8(r * 16), uint8(c * 16), uint8((r * c) % 256)
	})
	defer input.Close()

	inv := NewInvertFilter()
	once, err := inv.Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer once.Close()

	v, _ := once.GetUCharAt3(3, 0, 0)
	if v != 255-48 {
		t.Errorf("inverted sample = %d, want %d", v, 255-48)
	}

	twice, err := inv.Apply(context.Background(), once)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer twice.Close()

	if string(twice.Bytes()) != string(input.Bytes()) {
		t.Error("NOT applied twice did not restore the input")
	}
}

func TestSharpenUniformImageUnchanged(t *testing.T) {
	input := patternBGR(t, 5, 5, func(int, int) (uint8, uint8, uint8) { return 90, 90, 90 })
	defer input.Close()

	out, err := NewSharpenFilter().Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	if out.Type() != input.Type() {
		t.Errorf("type = %v, want %v", out.Type(), input.Type())
	}
	if string(out.Bytes()) != string(input.Bytes()) {
		t.Error("sharpening a flat image changed it")
	}
}

func TestSharpenAmplifiesSpike(t *testing.T) {
	input := patternGray(t, 5, 5, func(r, c int) uint8 {
		if r == 2 && c == 2 {
			return 100
		}
		return 50
	})
	defer input.Close()

	out, err := NewSharpenFilter().Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	center, _ := out.GetUCharAt(2, 2)
	if center != 255 {
		// 5*100 - 4*50 = 300, saturated
		t.Errorf("center = %d, want 255", center)
	}
	neighbour, _ := out.GetUCharAt(2, 1)
	if neighbour != 0 {
		// 5*50 - 100 - 3*50 = 0
		t.Errorf("neighbour = %d, want 0", neighbour)
	}
}

func TestDilateNeverShrinksForeground(t *testing.T) {
	input := patternGray(t, 20, 20, func(r, c int) uint8 {
		if (r*7+c*3)%11 == 0 {
			return 255
		}
		return 0
	})
	defer input.Close()

	before := countForeground(t, input)
	for _, se := range []StructuringElement{BoxElement, HorizontalElement, RectElement5, EllipseElement7} {
		t.Run(se.Name, func(t *testing.T) {
			out, err := Dilate(input, se)
			if err != nil {
				t.Fatalf("Dilate: %v", err)
			}
			defer out.Close()

			if after := countForeground(t, out); after < before {
				t.Errorf("foreground shrank from %d to %d", before, after)
			}
		})
	}
}

func TestHorizontalElementGrowsSideways(t *testing.T) {
	input := patternGray(t, 5, 5, func(r, c int) uint8 {
		if r == 2 && c == 2 {
			return 255
		}
		return 0
	})
	defer input.Close()

	out, err := Dilate(input, HorizontalElement)
	if err != nil {
		t.Fatalf("Dilate: %v", err)
	}
	defer out.Close()

	for _, p := range [][2]int{{2, 1}, {2, 2}, {2, 3}} {
		if v, _ := out.GetUCharAt(p[0], p[1]); v != 255 {
			t.Errorf("(%d,%d) = %d, want 255", p[0], p[1], v)
		}
	}
	for _, p := range [][2]int{{1, 2}, {3, 2}} {
		if v, _ := out.GetUCharAt(p[0], p[1]); v != 0 {
			t.Errorf("(%d,%d) = %d, want 0", p[0], p[1], v)
		}
	}
	if n := countForeground(t, out); n != 3 {
		t.Errorf("foreground = %d, want 3", n)
	}
}

func TestDilationFilterSideBySide(t *testing.T) {
	input := patternBGR(t, 60, 80, func(r, c int) (uint8, uint8, uint8) {
		if r > 30 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
	defer input.Close()

	out, err := NewDilationFilter(128).Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	if out.Rows() != 60 || out.Cols() != 160 || out.Channels() != 3 {
		t.Errorf("panel = %dx%dx%d, want 60x160x3", out.Rows(), out.Cols(), out.Channels())
	}
}

func TestDilationUnionCoversBoth(t *testing.T) {
	input := patternBGR(t, 30, 30, func(r, c int) (uint8, uint8, uint8) {
		if r == 15 && c == 15 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})
	defer input.Close()

	out, err := NewDilationUnionFilter(128).Apply(context.Background(), input)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	defer out.Close()

	if out.Channels() != 1 {
		t.Fatalf("channels = %d, want 1", out.Channels())
	}
	// 5x5 rectangle corners are outside the 7x7 ellipse but still covered.
	if v, _ := out.GetUCharAt(13, 13); v != 255 {
		t.Errorf("rect corner = %d, want 255", v)
	}
	// 7x7 ellipse reaches three pixels along the axes.
	if v, _ := out.GetUCharAt(15, 18); v != 255 {
		t.Errorf("ellipse tip = %d, want 255", v)
	}
}

func TestStructuringElementKernelErrors(t *testing.T) {
	if _, err := (StructuringElement{Name: "empty", Mask: [][]uint8{}}).Kernel(); err == nil {
		t.Error("expected error for empty mask")
	}
	if _, err := (StructuringElement{Name: "ragged", Mask: [][]uint8{{1, 1}, {1}}}).Kernel(); err == nil {
		t.Error("expected error for ragged mask")
	}
	if _, err := (StructuringElement{Name: "nosize", Shape: gocv.MorphRect}).Kernel(); err == nil {
		t.Error("expected error for zero size shape")
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewDefaultRegistry(Settings{Threshold: 128, Brightness: 30, BrightnessHSV: 50})

	want := []string{OpOriginal, OpGrayscale, OpBinary, OpBrightness, OpBrightnessHSV, OpNot, OpSharpen, OpDilation, OpDilationUnion}
	entries := r.Entries()
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Name, name)
		}
		if entries[i].Label == "" {
			t.Errorf("entry %s has no label", name)
		}
	}

	if _, err := r.Lookup("emboss"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Lookup(emboss) err = %v, want ErrUnknownOperation", err)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("First", NewInvertFilter())
	r.Register("Second", NewInvertFilter())

	if len(r.Entries()) != 1 {
		t.Fatalf("entries = %d, want 1", len(r.Entries()))
	}
	e, _ := r.Lookup(OpNot)
	if e.Label != "Second" {
		t.Errorf("label = %s, want Second", e.Label)
	}
}

func TestRegistryApplyDoesNotTouchInput(t *testing.T) {
	input := patternBGR(t, 4, 4, func(r, c int) (uint8, uint8, uint8) { return uint8(r), uint8(c), 9 })
	defer input.Close()
	before := input.Bytes()

	r := NewDefaultRegistry(Settings{Threshold: 128, Brightness: 30, BrightnessHSV: 50})
	for _, e := range r.Entries() {
		out, err := r.Apply(context.Background(), e.Name, input)
		if err != nil {
			t.Fatalf("%s: %v", e.Name, err)
		}
		if out == input {
			t.Errorf("%s returned its input", e.Name)
		}
		out.Close()
	}

	if string(input.Bytes()) != string(before) {
		t.Error("a filter modified its input")
	}
}

func TestFiltersRejectEmptyInput(t *testing.T) {
	r := NewDefaultRegistry(Settings{Threshold: 128, Brightness: 30, BrightnessHSV: 50})
	for _, e := range r.Entries() {
		if _, err := r.Apply(context.Background(), e.Name, nil); err == nil {
			t.Errorf("%s accepted a nil Mat", e.Name)
		}
	}
}

func TestFiltersHonourCancelledContext(t *testing.T) {
	input := patternBGR(t, 2, 2, func(int, int) (uint8, uint8, uint8) { return 1, 1, 1 })
	defer input.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSharpenFilter().Apply(ctx, input); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
