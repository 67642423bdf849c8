// Command lx is the driver for the lx language: an interactive REPL, a
// script runner and a couple of inspection commands for the front end.
//
// Usage:
//
//	lx [repl]            start the REPL
//	lx run FILE...       evaluate each file in its own session
//	lx tokens FILE       print the token stream
//	lx ast FILE          print the parse tree as an S-expression
//	lx version           print the version
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/l3x61/lx"
	"github.com/l3x61/lx/internal/config"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath  string
	logToStderr bool
	verbose     int
	maxDepth    int
	noColor     bool
}

// newLxCmd creates the root command. Without a subcommand it starts the REPL.
func newLxCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "lx",
		Short:         "lx is a small applied lambda calculus",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(opts.logToStderr, opts.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			glog.Flush()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return runREPL(cfg, stdin, stdout, stderr)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"Path to the YAML config file (default $"+config.EnvVar+" or ~/.lxrc.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(
		&opts.verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=5); 9 traces every application")
	cmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", 0, "Bound on evaluation nesting; 0 disables it")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(newReplCmd(&opts, stdin, stdout, stderr))
	cmd.AddCommand(newRunCmd(&opts, stdout, stderr))
	cmd.AddCommand(newTokensCmd(stdout))
	cmd.AddCommand(newASTCmd(stdout))
	cmd.AddCommand(newVersionCmd(stdout))

	return cmd
}

// initLogging ensures glog has been initialized with the given settings. glog
// is only configurable through the flag package, hence the poking below.
func initLogging(logToStderr bool, verbose int) {
	if !flag.Parsed() {
		_ = flag.CommandLine.Parse(nil)
	}
	if logToStderr {
		_ = flag.Lookup("logtostderr").Value.Set("true")
	}
	if verbose > 0 {
		_ = flag.Lookup("v").Value.Set(strconv.Itoa(verbose))
	}
}

// loadConfig reads the config file and lets explicitly set flags win over it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	if opts.noColor {
		cfg.Color = false
	}
	glog.V(3).Infof("config: %+v", *cfg)
	return cfg, nil
}

// errorMessage returns a message, flattening aggregated errors one per line.
func errorMessage(err error) string {
	if multi, ok := err.(*multierror.Error); ok {
		wr := multi.WrappedErrors()
		if len(wr) == 1 {
			return errorMessage(wr[0])
		}
		msg := fmt.Sprintf("%d errors occurred:", len(wr))
		for i, werr := range wr {
			msg += fmt.Sprintf("\n    %d) %s", i+1, errorMessage(werr))
		}
		return msg
	}
	return err.Error()
}

// exitCode maps the outcome of a command to the process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *lx.ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

func main() {
	err := newLxCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
	var ee *lx.ExitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, errorMessage(err))
	}
	glog.Flush()
	os.Exit(exitCode(err))
}
