// Package cli wires the datecast command line: flags, configuration,
// logging and the choice between stream filtering and the terminal UI.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/nconklindev/datecast/internal/config"
	"github.com/nconklindev/datecast/internal/converter"
	"github.com/nconklindev/datecast/internal/logging"
	"github.com/nconklindev/datecast/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitOK      = 0
	ExitFailure = 255
)

const usageLine = "datecast [-h] [-d [COL ...]] [-t [COL ...]] [-i PATH] [-o PATH] [flags]"

// usageError marks failures that are reported with the usage line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// NewRootCommand builds the datecast command reading stdin and writing
// stdout and stderr.
func NewRootCommand(version string, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "datecast",
		Short: "Replace dates with integers and timestamps with epoch seconds in a CSV stream",
		Long: `datecast reads CSV from standard input (or --input), rewrites the given
columns and writes CSV to standard output (or --output).

Date columns become YYYYMMDD, timestamp columns become Unix epoch seconds
rounded to the nearest second. Column numbers are 0-based. The first value
that is not an ISO-8601 date or datetime stops the run.`,
		Version:       version,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return &usageError{err: err}
			}
			if _, err := logging.Init(stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
				return &usageError{err: err}
			}
			log.Debug().
				Ints("date", cfg.DateColumns).
				Ints("timestamp", cfg.TimestampColumns).
				Str("naive_tz", cfg.NaiveTZ).
				Bool("tui", cfg.TUI).
				Msg("configuration resolved")

			if cfg.TUI {
				return runTUI(cfg)
			}
			return runStream(cfg, stdin, stdout)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.IntSliceP("date", "d", nil, "column numbers (0-based) of date columns")
	flags.IntSliceP("timestamp", "t", nil, "column numbers (0-based) of timestamp columns")
	flags.StringP("input", "i", "", "input file (.csv or .xlsx), default standard input")
	flags.StringP("output", "o", "", "output file (.csv or .xlsx), default standard output")
	flags.String("naive-tz", "UTC", `location for timestamps without an offset ("UTC", "Local" or an IANA name)`)
	flags.String("encoding", "utf-8", "input text encoding")
	flags.Bool("crlf", false, `terminate output rows with "\r\n"`)
	flags.Bool("header", false, "copy the first row through unchanged")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", logging.FormatConsole, "log format (console or json)")
	flags.Bool("tui", false, "pick a file and its columns interactively")
	flags.StringVar(&configFile, "config", "", "config file (yaml, toml or json)")

	for key, name := range map[string]string{
		config.KeyDate:      "date",
		config.KeyTimestamp: "timestamp",
		config.KeyInput:     "input",
		config.KeyOutput:    "output",
		config.KeyNaiveTZ:   "naive-tz",
		config.KeyEncoding:  "encoding",
		config.KeyCRLF:      "crlf",
		config.KeyHeader:    "header",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
		config.KeyTUI:       "tui",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

func newTransformer(cfg config.Config) (*converter.Transformer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	t := converter.New(cfg.DateColumns, cfg.TimestampColumns, loc)
	if cfg.Header {
		t.SkipRows = 1
	}
	return t, nil
}

func runStream(cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	t, err := newTransformer(cfg)
	if err != nil {
		return err
	}
	opts := converter.Options{
		Encoding: cfg.Encoding,
		CRLF:     cfg.CRLF,
		Stdin:    stdin,
		Stdout:   stdout,
	}
	_, err = converter.ConvertFile(cfg.Input, cfg.Output, t, opts, nil)
	return err
}

func runTUI(cfg config.Config) error {
	t, err := newTransformer(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(ui.InitialModel(t, cfg.Encoding), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// Execute runs datecast with args (without the program name) and returns the
// process exit code.
func Execute(version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(version, stdin, stdout, stderr)
	cmd.SetArgs(normalizeArgs(args))

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}
	report(cmd, stderr, err)
	return ExitFailure
}

func report(cmd *cobra.Command, stderr io.Writer, err error) {
	var pe *converter.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(stderr, "%v.\n", pe)
		return
	}

	var ue *usageError
	if errors.As(err, &ue) {
		r := lipgloss.NewRenderer(stderr)
		label := r.NewStyle().Bold(true).Render("usage:")
		fmt.Fprintf(stderr, "%s %s\n", label, usageLine)
		fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
		return
	}

	fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
}
