package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"geocss/combine"
	"geocss/config"
	"geocss/fixture"
	"geocss/misc"
	"geocss/state"
)

// lifecycle sets the environment up before a command runs and tears it down
// afterwards. Command errors are logged once, errLogged tells main not to
// print them again.
type lifecycle struct {
	errLogged bool
}

func (l *lifecycle) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help or version
		return ctx, nil
	}

	var (
		env        = state.EnvFromContext(ctx)
		configFile = cmd.String("config")
		err        error
	)
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("trace") {
		env.Cfg.Combiner.Trace = true
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if configFile != "" {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()
	env.Setup()

	env.Log.Debug("Program started",
		zap.Stringer("run", env.RunID),
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if configFile == "" {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func (l *lifecycle) after(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	// logger is synced, from here on errors only go to stderr
	if env.Rpt != nil {
		if e := env.Rpt.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
		}
	}
	if env.Cfg != nil && env.Cfg.Logging.FileLogger.Destination != "" {
		err = multierr.Append(err, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return err
}

// removeEmptyPanicLog drops crash output file created next to the log when
// nothing was written to it.
func removeEmptyPanicLog(logFile string) error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	name := filepath.Join(filepath.Dir(logFile), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(name); err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// exitErr runs before after(), while the logger is still open.
func (l *lifecycle) exitErr(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		l.errLogged = true
	}
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func commandNotFound(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

const sourceHelp = `
SOURCE:
    selector document(s) to process (YAML, multiple documents per file allowed):
        path to a file: "[path_to_file]file.yaml"
        path to a directory: "[path_to_directory]directory" - recursively process all %s files in natural order
        path to archive: "[path_to_archive]archive.zip" - process all %s files stored in the archive
`

const dumpConfigHelp = `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Writes configuration in effect: embedded defaults with values from the
configuration file on top. Use --default to see the defaults alone.
`

func codePageFlag() cli.Flag {
	return &cli.StringFlag{Name: "force-zip-cp",
		Usage: "Force `ENCODING` for ALL non UTF-8 file names in processed bundles (see IANA.org for character set names)"}
}

func newApp(l *lifecycle) *cli.Command {
	exts := strings.Join(fixture.Extensions, ", ")
	sourceCommand := func(name, usage string, action cli.ActionFunc, flags ...cli.Flag) *cli.Command {
		return &cli.Command{
			Name:               name,
			Usage:              usage,
			OnUsageError:       usageError,
			Action:             action,
			Flags:              append(flags, codePageFlag()),
			ArgsUsage:          "SOURCE...",
			CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, exts, exts),
		}
	}

	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "simplifier for geographic styling selectors",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          l.before,
		After:           l.after,
		OnUsageError:    usageError,
		ExitErrHandler:  l.exitErr,
		CommandNotFound: commandNotFound,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
			&cli.BoolFlag{Name: "trace", Aliases: []string{"t"}, Usage: "log every combination step, overrides configuration"},
		},
		Commands: []*cli.Command{
			sourceCommand("combine", "Combines selectors of every document into single canonical selector", combine.Run,
				&cli.BoolFlag{Name: "or", Usage: "combine document selectors with OR instead of AND"},
				&cli.BoolFlag{Name: "tree", Usage: "output selector tree with specificity of every node"},
			),
			sourceCommand("scales", "Lists scale ranges at which combined selectors may match", combine.Scales),
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError:       usageError,
				Action:             combine.OutputConfiguration,
				ArgsUsage:          "DESTINATION",
				CustomHelpTemplate: cli.CommandHelpTemplate + dumpConfigHelp,
			},
		},
	}
}

func run() int {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var l lifecycle
	if err := newApp(&l).Run(ctx, os.Args); err != nil {
		// logger is either not ready yet or already closed
		if !l.errLogged {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
