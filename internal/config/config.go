package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/ginfactory/internal/factory"
	"github.com/eugenenazirov/ginfactory/internal/naming"
)

const (
	defaultScheme           = naming.Numerical
	defaultDigits           = 3
	defaultStride           = 1
	defaultOutputDir        = "./gin_created_files"
	defaultLogLevel         = "info"
	defaultValidationOffset = 1
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML plan file > Defaults
type Config struct {
	Scheme       string
	Digits       int
	Stride       int
	OutputDir    string
	TemplatePath string
	ManifestPath string
	LogLevel     string

	WriteLimitPerSecond float64
	WriteLimitBurst     int

	Train      Job
	Validation *ValidationJob
}

// Job is one factory invocation.
type Job struct {
	FirstIndex int
	Stable     []factory.Override
	Varying    []factory.Axis
}

// ValidationJob generates one validation file per train file, Offset indices
// after it. String values may reference the train file stem as {train}.
type ValidationJob struct {
	Offset int
	Stable []factory.Override
}

// yamlConfig represents the YAML plan file structure.
type yamlConfig struct {
	OutputDir  string          `yaml:"output_dir"`
	Template   string          `yaml:"template"`
	Manifest   string          `yaml:"manifest"`
	LogLevel   string          `yaml:"log_level"`
	Naming     yamlNaming      `yaml:"naming"`
	WriteLimit yamlWriteLimit  `yaml:"write_limit"`
	Train      yamlJob         `yaml:"train"`
	Validation *yamlValidation `yaml:"validation"`
}

type yamlNaming struct {
	Scheme string `yaml:"scheme"`
	Digits int    `yaml:"digits"`
	Stride int    `yaml:"stride"`
}

type yamlWriteLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type yamlJob struct {
	FirstIndex int       `yaml:"first_index"`
	Stable     yaml.Node `yaml:"stable"`
	Varying    yaml.Node `yaml:"varying"`
}

type yamlValidation struct {
	Offset int       `yaml:"offset"`
	Stable yaml.Node `yaml:"stable"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile   string
	Scheme       *string
	Digits       *int
	Stride       *int
	OutputDir    *string
	TemplatePath *string
	ManifestPath *string
	LogLevel     *string
	FirstIndex   *int
	// Set holds key=value stable overrides for the train job.
	Set []string
	// Vary holds key=v1,v2 varying overrides for the train job.
	Vary []string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML plan file > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Scheme:    defaultScheme,
		Digits:    defaultDigits,
		Stride:    defaultStride,
		OutputDir: defaultOutputDir,
		LogLevel:  defaultLogLevel,
	}
}

// loadFromFile loads the plan from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies the plan file to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.Template != "" {
		cfg.TemplatePath = yamlCfg.Template
	}
	if yamlCfg.Manifest != "" {
		cfg.ManifestPath = yamlCfg.Manifest
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.Naming.Scheme != "" {
		cfg.Scheme = yamlCfg.Naming.Scheme
	}
	if yamlCfg.Naming.Digits != 0 {
		cfg.Digits = yamlCfg.Naming.Digits
	}
	if yamlCfg.Naming.Stride != 0 {
		cfg.Stride = yamlCfg.Naming.Stride
	}

	cfg.WriteLimitPerSecond = yamlCfg.WriteLimit.PerSecond
	cfg.WriteLimitBurst = yamlCfg.WriteLimit.Burst

	stable, err := decodeOverrides(&yamlCfg.Train.Stable)
	if err != nil {
		return fmt.Errorf("train.stable: %w", err)
	}
	varying, err := decodeAxes(&yamlCfg.Train.Varying)
	if err != nil {
		return fmt.Errorf("train.varying: %w", err)
	}
	cfg.Train = Job{
		FirstIndex: yamlCfg.Train.FirstIndex,
		Stable:     stable,
		Varying:    varying,
	}

	if yamlCfg.Validation != nil {
		stable, err := decodeOverrides(&yamlCfg.Validation.Stable)
		if err != nil {
			return fmt.Errorf("validation.stable: %w", err)
		}
		offset := yamlCfg.Validation.Offset
		if offset == 0 {
			offset = defaultValidationOffset
		}
		cfg.Validation = &ValidationJob{Offset: offset, Stable: stable}
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if scheme := strings.TrimSpace(os.Getenv("GINFACTORY_SCHEME")); scheme != "" {
		cfg.Scheme = scheme
	}

	if digits := strings.TrimSpace(os.Getenv("GINFACTORY_DIGITS")); digits != "" {
		if value, err := strconv.Atoi(digits); err == nil {
			cfg.Digits = value
		}
	}

	if stride := strings.TrimSpace(os.Getenv("GINFACTORY_STRIDE")); stride != "" {
		if value, err := strconv.Atoi(stride); err == nil {
			cfg.Stride = value
		}
	}

	if dir := strings.TrimSpace(os.Getenv("GINFACTORY_OUTPUT_DIR")); dir != "" {
		cfg.OutputDir = dir
	}

	if template := strings.TrimSpace(os.Getenv("GINFACTORY_TEMPLATE")); template != "" {
		cfg.TemplatePath = template
	}

	if level := strings.TrimSpace(os.Getenv("GINFACTORY_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Scheme != nil && *overrides.Scheme != "" {
		cfg.Scheme = *overrides.Scheme
	}
	if overrides.Digits != nil {
		cfg.Digits = *overrides.Digits
	}
	if overrides.Stride != nil {
		cfg.Stride = *overrides.Stride
	}
	if overrides.OutputDir != nil && *overrides.OutputDir != "" {
		cfg.OutputDir = *overrides.OutputDir
	}
	if overrides.TemplatePath != nil && *overrides.TemplatePath != "" {
		cfg.TemplatePath = *overrides.TemplatePath
	}
	if overrides.ManifestPath != nil && *overrides.ManifestPath != "" {
		cfg.ManifestPath = *overrides.ManifestPath
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.FirstIndex != nil {
		cfg.Train.FirstIndex = *overrides.FirstIndex
	}

	for _, raw := range overrides.Set {
		o, err := parseAssignment(raw)
		if err != nil {
			return fmt.Errorf("parse --set: %w", err)
		}
		cfg.Train.Stable = upsertOverride(cfg.Train.Stable, o)
	}

	for _, raw := range overrides.Vary {
		axis, err := parseAxis(raw)
		if err != nil {
			return fmt.Errorf("parse --vary: %w", err)
		}
		cfg.Train.Varying = upsertAxis(cfg.Train.Varying, axis)
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Digits < 1 || cfg.Digits > naming.MaxWidth {
		return fmt.Errorf("digits must be between 1 and %d, got %d", naming.MaxWidth, cfg.Digits)
	}
	if cfg.Stride < 1 {
		return fmt.Errorf("stride must be >= 1, got %d", cfg.Stride)
	}
	if cfg.Train.FirstIndex < 0 {
		return fmt.Errorf("first index must be >= 0, got %d", cfg.Train.FirstIndex)
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if cfg.WriteLimitBurst < 0 {
		return fmt.Errorf("write limit burst must be >= 0")
	}
	if cfg.Validation != nil && cfg.Validation.Offset < 1 {
		return fmt.Errorf("validation offset must be >= 1, got %d", cfg.Validation.Offset)
	}
	return nil
}

// parseAssignment parses a key=value flag into a stable override. The value
// is kept verbatim.
func parseAssignment(raw string) (factory.Override, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return factory.Override{}, fmt.Errorf("expected key=value, got %q", raw)
	}
	return factory.Override{Key: key, Value: value}, nil
}

// parseAxis parses key=v1,v2,... into a varying axis.
func parseAxis(raw string) (factory.Axis, error) {
	key, list, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return factory.Axis{}, fmt.Errorf("expected key=v1,v2,..., got %q", raw)
	}

	parts := strings.Split(list, ",")
	values := make([]any, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		values = append(values, part)
	}
	if len(values) == 0 {
		return factory.Axis{}, fmt.Errorf("no values provided for %q", key)
	}
	return factory.Axis{Key: key, Values: values}, nil
}

func upsertOverride(list []factory.Override, o factory.Override) []factory.Override {
	for i := range list {
		if list[i].Key == o.Key {
			list[i] = o
			return list
		}
	}
	return append(list, o)
}

func upsertAxis(list []factory.Axis, axis factory.Axis) []factory.Axis {
	for i := range list {
		if list[i].Key == axis.Key {
			list[i] = axis
			return list
		}
	}
	return append(list, axis)
}
