package filters

import (
	"context"
	"errors"
	"fmt"

	"filter-workbench/internal/opencv/safe"
)

// Operation names used by the registry and the dashboard.
const (
	OpOriginal      = "original"
	OpGrayscale     = "grayscale"
	OpBinary        = "binary"
	OpBrightness    = "brightness"
	OpBrightnessHSV = "brightness_hsv"
	OpNot           = "not"
	OpSharpen       = "sharpen"
	OpDilation      = "dilation"
	OpDilationUnion = "dilation_union"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Filter maps one raster to a new one. Apply never modifies input and the
// returned Mat belongs to the caller.
type Filter interface {
	Name() string
	Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error)
}

// Entry is one row of the dispatch table.
type Entry struct {
	Name   string
	Label  string
	Filter Filter
}

// Registry is an ordered name -> filter table.
type Registry struct {
	entries []Entry
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds f under its own Name. Registering a name twice replaces the
// earlier entry in place.
func (r *Registry) Register(label string, f Filter) {
	entry := Entry{Name: f.Name(), Label: label, Filter: f}
	if i, ok := r.index[entry.Name]; ok {
		r.entries[i] = entry
		return
	}
	r.index[entry.Name] = len(r.entries)
	r.entries = append(r.entries, entry)
}

func (r *Registry) Lookup(name string) (Entry, error) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, fmt.Errorf("%q: %w", name, ErrUnknownOperation)
	}
	return r.entries[i], nil
}

// Entries returns the table in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Apply runs the named filter on input.
func (r *Registry) Apply(ctx context.Context, name string, input *safe.Mat) (*safe.Mat, error) {
	entry, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	out, err := entry.Filter.Apply(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Settings carries the scalar parameters of the stock filter set.
type Settings struct {
	Threshold     int
	Brightness    int
	BrightnessHSV int
}

// NewDefaultRegistry builds the dashboard's filter table.
func NewDefaultRegistry(s Settings) *Registry {
	r := NewRegistry()
	r.Register("Original Image", NewOriginalFilter())
	r.Register("Grayscale", NewGrayscaleConverter())
	r.Register("Binary", NewBinaryFilter(s.Threshold))
	r.Register("Brighten", NewBrightnessFilter(s.Brightness))
	r.Register("Brighten (HSV)", NewHSVBrightnessFilter(s.BrightnessHSV))
	r.Register("Logical NOT", NewInvertFilter())
	r.Register("Sharpen", NewSharpenFilter())
	r.Register("Dilation", NewDilationFilter(s.Threshold))
	r.Register("Dilation (Box + Ellipse)", NewDilationUnionFilter(s.Threshold))
	return r
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// OriginalFilter returns a copy of its input.
type OriginalFilter struct{}

func NewOriginalFilter() *OriginalFilter {
	return &OriginalFilter{}
}

func (o *OriginalFilter) Name() string {
	return OpOriginal
}

func (o *OriginalFilter) Apply(ctx context.Context, input *safe.Mat) (*safe.Mat, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := safe.ValidateMatForOperation(input, OpOriginal); err != nil {
		return nil, err
	}
	return input.Clone()
}
