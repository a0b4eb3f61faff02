package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/config"
	"github.com/dshills/plantdx/internal/logging"
	"github.com/dshills/plantdx/internal/store"
)

const toolName = "plantdx"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// Exit codes.
const (
	exitCodeOK       = 0
	exitCodeError    = 1
	exitCodeNoMatch  = 2
	exitCodeBadInput = 3
	exitCodeStore    = 4
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func badInput(err error) error { return &exitError{code: exitCodeBadInput, err: err} }

// storeFailure maps a store error to an exit code. Writing to the read-only
// built-in backend is a configuration mistake, not a storage fault.
func storeFailure(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if errors.Is(err, store.ErrReadOnly) {
		return badInput(fmt.Errorf("%w (set kb.driver to file or sqlite to edit)", err))
	}
	return &exitError{code: exitCodeStore, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitCodeOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitCodeError
}

// app holds state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	fs      afero.Fs
	cfg     config.Config
	log     *zap.Logger
	cfgFile string
	envFile string
	verbose bool
}

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, toolName+":", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{v: config.New(), fs: fs, log: zap.NewNop()}

	root := &cobra.Command{
		Use:           toolName,
		Short:         "Forward-chaining plant disease diagnosis with explanation traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return badInput(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./plantdx.yaml or $HOME/plantdx.yaml)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file loaded before reading the environment (default .env)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.String("kb-driver", "builtin", "knowledge base backend: builtin, file or sqlite")
	pf.String("kb-path", "", "built-in name, knowledge base file or database path")
	pf.StringP("format", "f", "text", "output format: text, markdown, json or pretty")
	pf.Bool("color", true, "colorize text output")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log encoding: console or json")

	for key, flag := range map[string]string{
		"kb.driver":     "kb-driver",
		"kb.path":       "kb-path",
		"output.format": "format",
		"output.color":  "color",
		"log.level":     "log-level",
		"log.format":    "log-format",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(
		newDiagnoseCmd(a),
		newSymptomsCmd(a),
		newBatchCmd(a),
		newKBCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and builds the logger.
func (a *app) init() error {
	cfg, used, err := config.Load(a.v, config.Sources{ConfigFile: a.cfgFile, EnvFile: a.envFile})
	if err != nil {
		return badInput(err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return badInput(err)
	}
	a.log = log
	if used != "" {
		a.log.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func (a *app) openStore() (store.Store, error) {
	st, err := store.Open(store.Options{
		Driver: a.cfg.KB.Driver,
		Path:   a.cfg.KB.Path,
		Fs:     a.fs,
		Logger: a.log,
	})
	if err != nil {
		return nil, storeFailure(err)
	}
	return st, nil
}

// withStore opens the configured store, runs fn and closes the store.
func (a *app) withStore(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			a.log.Warn("closing knowledge base store", zap.Error(cerr))
		}
	}()
	return fn(ctx, st)
}

// writeOutput writes b to path when set, otherwise to w.
func (a *app) writeOutput(w io.Writer, path string, b []byte) error {
	if path == "" {
		_, err := w.Write(b)
		return err
	}
	if err := afero.WriteFile(a.fs, path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.log.Debug("output written", zap.String("path", path), zap.Int("bytes", len(b)))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the plantdx version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", toolName, version)
			return err
		},
	}
}
