package histogram

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	PlotTitle  = "Color Histogram"
	PlotXLabel = "Intensity"
	PlotYLabel = "Pixel Count"

	minPlotWidth  = 200
	minPlotHeight = 150

	// area fills are the line colour moved this far towards white in Lab
	fillLightening = 0.6
	fillAlpha      = 96
)

var seriesHex = map[string]string{
	"blue":  "#0000ff",
	"green": "#008000",
	"red":   "#ff0000",
	"gray":  "#404040",
}

var white = colorful.Color{R: 1, G: 1, B: 1}

func seriesColor(name string) colorful.Color {
	if hex, ok := seriesHex[name]; ok {
		if c, err := colorful.Hex(hex); err == nil {
			return c
		}
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}

// SeriesColor returns the line colour used for a series name.
func SeriesColor(name string) color.Color {
	return seriesColor(name)
}

// FillColor returns the translucent colour painted under a series. Fills of
// overlapping series composite over each other, so shared intensity ranges
// show as a mix of both channels.
func FillColor(name string) color.NRGBA {
	r, g, b := seriesColor(name).BlendLab(white, fillLightening).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: fillAlpha}
}

// Plot draws the series as filled line charts over the intensity range [0, 256].
func Plot(h *Histogram, width, height int) (image.Image, error) {
	if h == nil || len(h.Series) == 0 {
		return nil, fmt.Errorf("histogram has no series")
	}
	if width < minPlotWidth || height < minPlotHeight {
		return nil, fmt.Errorf("plot size %dx%d below minimum %dx%d", width, height, minPlotWidth, minPlotHeight)
	}

	const (
		left   = 70.0
		right  = 20.0
		top    = 40.0
		bottom = 50.0
	)
	w, ht := float64(width), float64(height)
	plotW := w - left - right
	plotH := ht - top - bottom

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	maxCount := h.Max()
	if maxCount == 0 {
		maxCount = 1
	}
	xAt := func(bin float64) float64 { return left + bin/Bins*plotW }
	yAt := func(count float64) float64 { return top + plotH - count/maxCount*plotH }

	// axes and ticks
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, top+plotH)
	dc.DrawLine(left, top+plotH, left+plotW, top+plotH)
	dc.Stroke()

	for _, tick := range []float64{0, 64, 128, 192, 256} {
		x := xAt(tick)
		dc.DrawLine(x, top+plotH, x, top+plotH+5)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", tick), x, top+plotH+16, 0.5, 0.5)
	}
	for _, frac := range []float64{0, 0.5, 1} {
		y := yAt(maxCount * frac)
		dc.DrawLine(left-5, y, left, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", maxCount*frac), left-8, y, 1, 0.5)
	}

	dc.DrawStringAnchored(PlotTitle, w/2, top/2, 0.5, 0.5)
	dc.DrawStringAnchored(PlotXLabel, left+plotW/2, ht-12, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), 14, top+plotH/2)
	dc.DrawStringAnchored(PlotYLabel, 14, top+plotH/2, 0.5, 0.5)
	dc.Pop()

	for _, s := range h.Series {
		if len(s.Counts) == 0 {
			continue
		}
		dc.SetColor(FillColor(s.Name))
		dc.MoveTo(xAt(0), yAt(0))
		for bin, count := range s.Counts {
			dc.LineTo(xAt(float64(bin)), yAt(count))
		}
		dc.LineTo(xAt(float64(len(s.Counts)-1)), yAt(0))
		dc.ClosePath()
		dc.Fill()
	}

	dc.SetLineWidth(1.5)
	for _, s := range h.Series {
		dc.SetColor(SeriesColor(s.Name))
		for bin, count := range s.Counts {
			x, y := xAt(float64(bin)), yAt(count)
			if bin == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	return dc.Image(), nil
}
