package factory

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/ginfactory/internal/ginfile"
	"github.com/eugenenazirov/ginfactory/internal/naming"
)

// Factory expands a template plus overrides into numbered config files.
// Its configuration is fixed at construction; calls share no other state.
type Factory struct {
	scheme naming.Scheme
	width  int
	stride int
	logger *zap.Logger

	writesPerSecond float64
	writeBurst      int
	sleep           func(time.Duration)
	throttle        writeThrottle
}

// Option configures a Factory.
type Option func(*Factory)

// WithStride sets the increment between successive file indices (default 1).
func WithStride(stride int) Option {
	return func(f *Factory) {
		f.stride = stride
	}
}

// WithLogger attaches a logger; the factory is silent by default.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWriteLimit caps file writes per second. A non-positive rate disables the cap.
func WithWriteLimit(perSecond float64, burst int) Option {
	return func(f *Factory) {
		f.writesPerSecond = perSecond
		f.writeBurst = burst
	}
}

func withSleep(sleep func(time.Duration)) Option {
	return func(f *Factory) {
		f.sleep = sleep
	}
}

// New creates a Factory using the named scheme bound to width digits.
func New(scheme string, width int, opts ...Option) (*Factory, error) {
	s, err := naming.Lookup(scheme, width)
	if err != nil {
		return nil, err
	}

	f := &Factory{
		scheme: s,
		width:  width,
		stride: 1,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.stride < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidStride, f.stride)
	}
	f.throttle = newWriteThrottle(f.writesPerSecond, f.writeBurst, f.sleep)

	return f, nil
}

// Stride returns the configured index increment.
func (f *Factory) Stride() int {
	return f.stride
}

// Scheme returns the naming scheme used for output files.
func (f *Factory) Scheme() naming.Scheme {
	return f.scheme
}

// Generate writes one file per combination of the request's varying values,
// or a single file when there are no varying overrides. All precondition
// checks run before the first file is written. Outputs are returned in
// product order, the last axis cycling fastest.
func (f *Factory) Generate(req Request) ([]Output, error) {
	if req.OutputDir == "" {
		return nil, ErrMissingOutputDir
	}
	if req.FirstIndex < 0 {
		return nil, fmt.Errorf("%w, got %d", naming.ErrNegativeIndex, req.FirstIndex)
	}
	if err := checkKeys(req.Stable, req.Varying); err != nil {
		return nil, err
	}

	sizes := make([]int, len(req.Varying))
	for i, axis := range req.Varying {
		sizes[i] = len(axis.Values)
	}
	count := combinationCount(sizes, f.scheme.Capacity())
	if len(req.Varying) > 0 && count > 0 {
		if err := f.checkRange(req.FirstIndex, count); err != nil {
			return nil, err
		}
	}

	base := ginfile.NewMapping()
	if req.TemplatePath != "" {
		parsed, err := ginfile.ReadFile(req.TemplatePath)
		if err != nil {
			return nil, err
		}
		base = parsed
	}
	for _, o := range req.Stable {
		base.Set(o.Key, ginfile.FormatValue(o.Value))
	}

	if len(req.Varying) == 0 {
		out, err := f.emit(base, req.OutputDir, req.FirstIndex)
		if err != nil {
			return nil, err
		}
		return []Output{out}, nil
	}

	formatted := make([][]string, len(req.Varying))
	for i, axis := range req.Varying {
		formatted[i] = make([]string, len(axis.Values))
		for j, v := range axis.Values {
			formatted[i][j] = ginfile.FormatValue(v)
		}
	}

	outputs := make([]Output, 0, count)
	index := req.FirstIndex
	err := eachCombination(sizes, func(choice []int) error {
		for i, axis := range req.Varying {
			base.Set(axis.Key, formatted[i][choice[i]])
		}
		out, err := f.emit(base, req.OutputDir, index)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
		index += f.stride
		return nil
	})
	if err != nil {
		return outputs, err
	}

	return outputs, nil
}

// Write stores m under the scheme's name for index inside dir, creating dir
// if needed and replacing any existing file. It returns the written path.
func (f *Factory) Write(m *ginfile.Mapping, dir string, index int) (string, error) {
	name, err := f.scheme.Name(index)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if f.throttle != nil {
		f.throttle.Wait()
	}

	path := filepath.Join(dir, name)
	if err := ginfile.WriteFile(path, m); err != nil {
		return "", err
	}
	f.logger.Debug("gin file written",
		zap.String("path", path),
		zap.Int("index", index),
		zap.Int("keys", m.Len()),
	)
	return path, nil
}

func (f *Factory) emit(m *ginfile.Mapping, dir string, index int) (Output, error) {
	path, err := f.Write(m, dir, index)
	if err != nil {
		return Output{}, err
	}
	return Output{Index: index, Path: path, Values: m.Clone()}, nil
}

// checkRange rejects a run when first+count, or the last index
// first+(count-1)*stride, exceeds the largest number the width can hold.
// count is at least 1.
func (f *Factory) checkRange(first, count int) error {
	limit := f.scheme.Capacity() - 1
	if first > limit {
		return &naming.IndexOverflowError{Index: first, Width: f.width}
	}
	if count > limit-first {
		return &naming.IndexOverflowError{Index: first + count, Width: f.width}
	}
	if count-1 > (limit-first)/f.stride {
		last := math.MaxInt
		if count-1 <= (math.MaxInt-first)/f.stride {
			last = first + (count-1)*f.stride
		}
		return &naming.IndexOverflowError{Index: last, Width: f.width}
	}
	return nil
}

func checkKeys(stable []Override, varying []Axis) error {
	stableKeys := make(map[string]struct{}, len(stable))
	for _, o := range stable {
		stableKeys[o.Key] = struct{}{}
	}

	seen := make(map[string]struct{}, len(varying))
	var conflicts []string
	for _, axis := range varying {
		if _, dup := seen[axis.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateAxis, axis.Key)
		}
		seen[axis.Key] = struct{}{}
		if _, ok := stableKeys[axis.Key]; ok {
			conflicts = append(conflicts, axis.Key)
		}
	}
	if len(conflicts) > 0 {
		return &ConflictingKeysError{Keys: conflicts}
	}
	return nil
}
