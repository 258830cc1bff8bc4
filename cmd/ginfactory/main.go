package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/ginfactory/internal/application"
	"github.com/eugenenazirov/ginfactory/internal/config"
	"github.com/eugenenazirov/ginfactory/internal/logging"
	"github.com/eugenenazirov/ginfactory/internal/manifest"
)

type commandLine struct {
	app      *kingpin.Application
	generate *kingpin.CmdClause
	sweep    *kingpin.CmdClause

	configFile   *string
	logLevel     *string
	outputDir    *string
	templatePath *string
	manifestPath *string
	scheme       *string
	digits       *int
	stride       *int
	firstIndex   *int
	set          *[]string
	vary         *[]string
}

func newCommandLine() *commandLine {
	app := kingpin.New("ginfactory", "Gin Factory - generates experiment config files from a template and swept overrides")

	c := &commandLine{app: app}
	c.configFile = app.Flag("config", "Path to YAML plan file").Short('c').String()
	c.logLevel = app.Flag("log-level", "Log level (debug, info, warn, error)").String()
	c.outputDir = app.Flag("output", "Directory receiving the generated files").Short('o').String()
	c.templatePath = app.Flag("template", "Base config file providing default values").Short('t').String()
	c.manifestPath = app.Flag("manifest", "Where to write the run manifest").String()
	c.scheme = app.Flag("scheme", "Output naming scheme").String()
	c.digits = app.Flag("digits", "Zero-padded digit width of file names (set 0 to keep configured value)").Default("0").Int()
	c.stride = app.Flag("stride", "Index increment between generated files (set 0 to keep configured value)").Default("0").Int()

	c.generate = app.Command("generate", "Generate one file per combination of varying values").Default()
	c.firstIndex = c.generate.Flag("first-index", "Index of the first generated file (set -1 to keep configured value)").Default("-1").Int()
	c.set = c.generate.Flag("set", "Stable override key=value (repeatable)").Strings()
	c.vary = c.generate.Flag("vary", "Varying override key=v1,v2,... (repeatable)").Strings()

	c.sweep = app.Command("sweep", "Generate train files and one paired validation file per train file from the plan")

	return c
}

// overrides converts parsed flags into config overrides; sentinel defaults mean "not set".
func (c *commandLine) overrides() *config.CLIOverrides {
	o := &config.CLIOverrides{
		ConfigFile:   *c.configFile,
		Scheme:       c.scheme,
		OutputDir:    c.outputDir,
		TemplatePath: c.templatePath,
		ManifestPath: c.manifestPath,
		LogLevel:     c.logLevel,
		Set:          *c.set,
		Vary:         *c.vary,
	}
	if *c.digits > 0 {
		o.Digits = c.digits
	}
	if *c.stride > 0 {
		o.Stride = c.stride
	}
	if *c.firstIndex >= 0 {
		o.FirstIndex = c.firstIndex
	}
	return o
}

func main() {
	cli := newCommandLine()
	command := kingpin.MustParse(cli.app.Parse(os.Args[1:]))

	cfg, err := config.Load(cli.overrides())
	cli.app.FatalIfError(err, "failed to load configuration")

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(command, cli, cfg, logger); err != nil {
		logger.Fatal("generation failed", zap.String("command", command), zap.Error(err))
	}
}

func run(command string, cli *commandLine, cfg config.Config, logger *zap.Logger) error {
	app, err := application.New(cfg, logger)
	if err != nil {
		return err
	}

	var m *manifest.Manifest
	switch command {
	case cli.sweep.FullCommand():
		m, err = app.Sweep()
	default:
		m, err = app.Generate()
	}
	if err != nil {
		return err
	}

	logger.Info("done", zap.String("run_id", m.RunID), zap.Int("files", len(m.Entries)))
	return nil
}
