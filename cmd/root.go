package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mysh/internal/config"
	"mysh/internal/executor"
	"mysh/internal/logging"
	"mysh/internal/output"
	"mysh/internal/repl"
	"mysh/internal/shell"
)

// newRootCmd builds the mysh command. The shell's exit code is stored in code;
// a returned error from Execute means the shell never started.
func newRootCmd(fs afero.Fs, code *int) *cobra.Command {
	var (
		cfgPath  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "mysh [batchFile]",
		Short: "A small job-control shell",
		Long: `mysh runs commands read from the terminal, or from batchFile when one is given.

A trailing & runs a command in the background. Built-ins:
  jobs        list background jobs that are still running
  wait <jid>  block until a background job ends
  exit        leave the shell
A lone & leaves the shell immediately.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		// Any argument that is not one of our long flags is the batch file,
		// even when it starts with a dash.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, raw []string) error {
			printer := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

			args, err := splitArgs(cmd.Flags(), raw)
			if err != nil || len(args) > 1 {
				printer.Usage()
				*code = 1
				return nil
			}
			if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
				*code = 0
				return cmd.Help()
			}

			cfg, err := config.Load(fs, cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			logger = logging.WithSession(logger)

			sh := shell.New(executor.New(logger), printer, logger)

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := fs.Open(args[0])
				if err != nil {
					logger.Debug("cannot open batch file", "path", args[0], "err", err)
					printer.CannotOpen(args[0])
					*code = 1
					return nil
				}
				sh.SetBatch(f)
				in = f
			}

			logger.Debug("shell started", "batch", sh.Batch())
			*code = repl.Run(sh, in, repl.Options{
				Prompt:        cfg.Prompt,
				MaxLineLength: cfg.MaxLineLength,
			})
			logger.Debug("shell finished", "code", *code)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&cfgPath, "config", "", "config file (yaml, json or toml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "diagnostic log level (debug, info, warn, error)")

	return rootCmd
}

// splitArgs sets the long flags found in raw and returns the other arguments
// in order. Both "--name value" and "--name=value" are accepted.
func splitArgs(flags *pflag.FlagSet, raw []string) ([]string, error) {
	var rest []string
	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !strings.HasPrefix(arg, "--") || name == "help" || flags.Lookup(name) == nil {
			rest = append(rest, arg)
			continue
		}
		if !hasValue {
			if i+1 == len(raw) {
				return nil, fmt.Errorf("flag needs an argument: --%s", name)
			}
			i++
			value = raw[i]
		}
		if err := flags.Set(name, value); err != nil {
			return nil, err
		}
	}
	return rest, nil
}

// Execute runs mysh with the process arguments and returns the exit code.
// This is called by main.main().
func Execute() int {
	code := 0
	if err := newRootCmd(afero.NewOsFs(), &code).Execute(); err != nil {
		return 1
	}
	return code
}
