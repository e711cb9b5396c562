package histogram

import (
	"fmt"

	"filter-workbench/internal/opencv/safe"

	"gocv.io/x/gocv"
)

const Bins = 256

// Series is the 256-bin intensity distribution of one channel.
type Series struct {
	Name   string
	Counts []float64
}

// Max returns the largest bin count.
func (s Series) Max() float64 {
	m := 0.0
	for _, c := range s.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Total returns the sum of all bins.
func (s Series) Total() float64 {
	t := 0.0
	for _, c := range s.Counts {
		t += c
	}
	return t
}

type Histogram struct {
	Series []Series
	Pixels int
}

// Max returns the largest bin count across all series.
func (h *Histogram) Max() float64 {
	m := 0.0
	for _, s := range h.Series {
		if v := s.Max(); v > m {
			m = v
		}
	}
	return m
}

var bgrNames = []string{"blue", "green", "red"}

// Compute returns one series per channel: blue, green, red for colour input,
// a single gray series for single channel input.
func Compute(src *safe.Mat) (*Histogram, error) {
	if err := safe.ValidateChannels(src, "histogram", 1, 3); err != nil {
		return nil, err
	}

	names := []string{"gray"}
	if src.Channels() == 3 {
		names = bgrNames
	}

	mat := src.GetMat()
	mask := gocv.NewMat()
	defer mask.Close()

	h := &Histogram{Pixels: src.Rows() * src.Cols()}
	for i, name := range names {
		hist := gocv.NewMat()
		gocv.CalcHist([]gocv.Mat{mat}, []int{i}, mask, &hist, []int{Bins}, []float64{0, Bins}, false)
		if hist.Rows() != Bins {
			hist.Close()
			return nil, fmt.Errorf("calcHist returned %d bins for channel %s", hist.Rows(), name)
		}

		counts := make([]float64, Bins)
		for b := 0; b < Bins; b++ {
			counts[b] = float64(hist.GetFloatAt(b, 0))
		}
		hist.Close()

		h.Series = append(h.Series, Series{Name: name, Counts: counts})
	}

	return h, nil
}
