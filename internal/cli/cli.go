package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/iconpipe/internal/app"
	"github.com/specialistvlad/iconpipe/internal/watch"
)

// DefaultConfigPath is used when no configuration path is given.
const DefaultConfigPath = "iconpipe.hcl"

// Version is set at link time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Action tells the caller what to do with a parsed configuration.
type Action int

const (
	// ActionNone means the command was fully handled, e.g. help or version.
	ActionNone Action = iota
	// ActionBuild runs a single build.
	ActionBuild
	// ActionWatch builds and then rebuilds on every change.
	ActionWatch
)

func (a Action) String() string {
	switch a {
	case ActionBuild:
		return "build"
	case ActionWatch:
		return "watch"
	}
	return "none"
}

// flags holds the values shared by the build and watch commands.
type flags struct {
	format      string
	outputDir   string
	iconsDir    string
	noPNG       bool
	noLibrary   bool
	force       bool
	workers     int
	unitTimeout time.Duration
	logFormat   string
	logLevel    string
	statusPort  int
	debounce    time.Duration
}

// Parse processes command-line arguments. It returns a populated app
// configuration and the action to take, or an ExitError. Usage errors
// carry exit code 2.
func Parse(args []string, output io.Writer) (*app.Config, Action, error) {
	slog.Debug("CLI parser started.")

	var (
		f      flags
		cfg    *app.Config
		action = ActionNone
	)

	commandFor := func(a Action) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			c, err := f.config(args)
			if err != nil {
				return err
			}
			cfg, action = c, a
			return nil
		}
	}

	root := &cobra.Command{
		Use:   "iconpipe",
		Short: "Build tactical icon sets from SVG templates",
		Long: `iconpipe renders SVG icon templates for every organisation, name and
color polarity described in HCL or YAML configuration, rasterizes changed
icons to PNG and bundles them into draw.io libraries.

Rebuilds are incremental: only icons whose content changed are rasterized.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.format, "format", "", "Configuration format: 'hcl' or 'yaml'. Detected from file extensions when empty.")
	pf.StringVarP(&f.outputDir, "output", "o", "", "Output directory. Overrides the configured output_dir.")
	pf.StringVar(&f.iconsDir, "icons", "", "Template directory. Overrides the configured icons_dir.")
	pf.BoolVar(&f.noPNG, "no-png", false, "Skip rasterization.")
	pf.BoolVar(&f.noLibrary, "no-library", false, "Skip draw.io library generation.")
	pf.BoolVar(&f.force, "force", false, "Rasterize every icon, ignoring previous outputs.")
	pf.IntVar(&f.workers, "workers", 0, "Number of concurrent workers. 0 uses one per CPU.")
	pf.DurationVar(&f.unitTimeout, "unit-timeout", 0, "Time limit for rendering or rasterizing one icon. 0 is unlimited.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.IntVar(&f.statusPort, "status-port", 0, "Port for the HTTP health and metrics server. 0 is disabled.")

	build := &cobra.Command{
		Use:   "build [CONFIG_PATH...]",
		Short: "Build all icons once",
		Long:  "Build all icons once. CONFIG_PATH is a .hcl/.yaml file or a directory of them and defaults to " + DefaultConfigPath + ".",
		RunE:  commandFor(ActionBuild),
	}

	watchCmd := &cobra.Command{
		Use:   "watch [CONFIG_PATH...]",
		Short: "Build, then rebuild whenever configuration or templates change",
		RunE:  commandFor(ActionWatch),
	}
	watchCmd.Flags().DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "Quiet period before a change triggers a rebuild.")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "iconpipe version %s\n", Version)
		},
	}

	root.AddCommand(build, watchCmd, version)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, ActionNone, exitErr
		}
		return nil, ActionNone, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished.", "action", action)
	return cfg, action, nil
}

// config validates the flags and builds the app configuration.
func (f *flags) config(args []string) (*app.Config, error) {
	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{DefaultConfigPath}
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPaths: paths,
		Format:      strings.ToLower(f.format),
		OutputDir:   f.outputDir,
		IconsDir:    f.iconsDir,
		NoPNG:       f.noPNG,
		NoLibrary:   f.noLibrary,
		Force:       f.force,
		Workers:     f.workers,
		UnitTimeout: f.unitTimeout,
		Debounce:    f.debounce,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		StatusPort:  f.statusPort,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
