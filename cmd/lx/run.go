package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/l3x61/lx"
	"github.com/l3x61/lx/internal/config"
)

func newRunCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Evaluate lx source files",
		Long: "Evaluate each file in a fresh session and print its value.\n" +
			"A failing file does not stop the others; the exit native stops everything.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			lx.EnableColor = false
			return runFiles(cfg, args, quiet, stdout)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the value of each file")
	return cmd
}

// runFiles evaluates every path and aggregates their failures.
func runFiles(cfg *config.Config, paths []string, quiet bool, stdout io.Writer) error {
	var result error
	for _, path := range paths {
		v, err := runFile(cfg, path, stdout)
		if err != nil {
			var ee *lx.ExitError
			if errors.As(err, &ee) {
				glog.V(3).Infof("%s called exit %d", path, ee.Code)
				return ee
			}
			result = multierror.Append(result, err)
			continue
		}
		if !quiet {
			fmt.Fprintln(stdout, v)
		}
	}
	return result
}

// runFile evaluates one file in its own session. The value is formatted before
// the session is closed.
func runFile(cfg *config.Config, path string, stdout io.Writer) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot read %s", path)
	}

	ip := lx.NewInterpreter()
	defer ip.Close()
	ip.Stdout = stdout
	ip.SetMaxDepth(cfg.MaxDepth)

	v, err := ip.EvalSource(string(src))
	if err != nil {
		return "", lx.WrapErrorWithName(err, path, string(src))
	}
	return lx.FormatValue(v), nil
}
