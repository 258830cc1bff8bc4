package application

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/ginfactory/internal/config"
	"github.com/eugenenazirov/ginfactory/internal/factory"
	"github.com/eugenenazirov/ginfactory/internal/ginfile"
	"github.com/eugenenazirov/ginfactory/internal/manifest"
	"github.com/eugenenazirov/ginfactory/internal/naming"
)

const (
	defaultManifestName = "manifest.yaml"
	trainPlaceholder    = "{train}"
)

// ErrNoValidationJob is returned by Sweep when the plan has no validation section.
var ErrNoValidationJob = errors.New("plan has no validation section")

// App wires configuration, the factory and the logger together.
type App struct {
	cfg     config.Config
	factory *factory.Factory
	logger  *zap.Logger
}

// New builds the factory described by cfg.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := factory.New(cfg.Scheme, cfg.Digits,
		factory.WithStride(cfg.Stride),
		factory.WithLogger(logger),
		factory.WithWriteLimit(cfg.WriteLimitPerSecond, cfg.WriteLimitBurst),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create factory: %w", err)
	}

	return &App{
		cfg:     cfg,
		factory: f,
		logger:  logger,
	}, nil
}

// Generate runs the train job. The manifest is saved only when a manifest
// path is configured.
func (a *App) Generate() (*manifest.Manifest, error) {
	m := manifest.New()
	if err := a.runTrain(m); err != nil {
		return nil, err
	}
	if a.cfg.ManifestPath != "" {
		if err := a.saveManifest(m, a.cfg.ManifestPath); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Sweep runs the train job followed by one validation file per train file,
// then saves the manifest (default <output_dir>/manifest.yaml).
func (a *App) Sweep() (*manifest.Manifest, error) {
	if a.cfg.Validation == nil {
		return nil, ErrNoValidationJob
	}

	m := manifest.New()
	if err := a.runTrain(m); err != nil {
		return nil, err
	}
	if err := a.runValidation(m, *a.cfg.Validation); err != nil {
		return nil, err
	}

	path := a.cfg.ManifestPath
	if path == "" {
		path = filepath.Join(a.cfg.OutputDir, defaultManifestName)
	}
	if err := a.saveManifest(m, path); err != nil {
		return nil, err
	}
	return m, nil
}

func (a *App) runTrain(m *manifest.Manifest) error {
	outputs, err := a.factory.Generate(factory.Request{
		OutputDir:    a.cfg.OutputDir,
		TemplatePath: a.cfg.TemplatePath,
		Stable:       a.cfg.Train.Stable,
		Varying:      a.cfg.Train.Varying,
		FirstIndex:   a.cfg.Train.FirstIndex,
	})
	if err != nil {
		return fmt.Errorf("train job: %w", err)
	}

	for _, out := range outputs {
		if err := m.Add(manifest.Entry{
			Index: out.Index,
			File:  filepath.Base(out.Path),
			Role:  manifest.RoleTrain,
		}); err != nil {
			return fmt.Errorf("train job: %w", err)
		}
	}

	a.logger.Info("train job completed",
		zap.Int("files", len(outputs)),
		zap.Int("first_index", a.cfg.Train.FirstIndex),
		zap.Int("stride", a.factory.Stride()),
		zap.String("output_dir", a.cfg.OutputDir),
	)
	return nil
}

func (a *App) runValidation(m *manifest.Manifest, job config.ValidationJob) error {
	trains := m.ByRole(manifest.RoleTrain)

	// Check every target index up front so a collision or an index too wide
	// for the scheme writes nothing.
	for _, train := range trains {
		index := train.Index + job.Offset
		if m.Has(index) {
			return fmt.Errorf("validation job: %w: %d (paired with train file %s)",
				manifest.ErrDuplicateIndex, index, train.File)
		}
		if _, err := a.factory.Scheme().Name(index); err != nil {
			return fmt.Errorf("validation job for %s: %w", train.File, err)
		}
	}

	for _, train := range trains {
		stem := naming.Stem(train.File)
		index := train.Index + job.Offset

		outputs, err := a.factory.Generate(factory.Request{
			OutputDir:    a.cfg.OutputDir,
			TemplatePath: a.cfg.TemplatePath,
			Stable:       substituteTrain(job.Stable, stem),
			FirstIndex:   index,
		})
		if err != nil {
			return fmt.Errorf("validation job for %s: %w", train.File, err)
		}

		pair := train.Index
		for _, out := range outputs {
			if err := m.Add(manifest.Entry{
				Index: out.Index,
				File:  filepath.Base(out.Path),
				Role:  manifest.RoleValidation,
				Pair:  &pair,
			}); err != nil {
				return fmt.Errorf("validation job: %w", err)
			}
		}
	}

	a.logger.Info("validation job completed",
		zap.Int("files", len(trains)),
		zap.Int("offset", job.Offset),
	)
	return nil
}

func (a *App) saveManifest(m *manifest.Manifest, path string) error {
	if err := m.Save(path); err != nil {
		return err
	}
	a.logger.Info("manifest written",
		zap.String("path", path),
		zap.String("run_id", m.RunID),
		zap.Int("entries", len(m.Entries)),
	)
	return nil
}

// substituteTrain replaces {train} with the train file stem in string values,
// including strings nested in lists, tuples and dict values.
func substituteTrain(overrides []factory.Override, stem string) []factory.Override {
	out := make([]factory.Override, len(overrides))
	for i, o := range overrides {
		out[i] = factory.Override{Key: o.Key, Value: substituteValue(o.Value, stem)}
	}
	return out
}

func substituteValue(v any, stem string) any {
	switch x := v.(type) {
	case string:
		return strings.ReplaceAll(x, trainPlaceholder, stem)
	case []any:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = substituteValue(item, stem)
		}
		return items
	case ginfile.Tuple:
		items := make(ginfile.Tuple, len(x))
		for i, item := range x {
			items[i] = substituteValue(item, stem)
		}
		return items
	case ginfile.Dict:
		items := make(ginfile.Dict, len(x))
		for i, item := range x {
			items[i] = ginfile.DictItem{Key: item.Key, Value: substituteValue(item.Value, stem)}
		}
		return items
	default:
		return v
	}
}
