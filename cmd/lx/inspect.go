package main

import (
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/l3x61/lx"
)

// readSource reads FILE, or stdin when FILE is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", pkgerrors.Wrapf(err, "cannot read %s", path)
	}
	return string(data), nil
}

func newTokensCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the tokens of an lx source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			toks, err := lx.Tokenize(src)
			if err != nil {
				return lx.WrapErrorWithName(err, args[0], src)
			}
			for _, t := range toks {
				fmt.Fprintf(stdout, "%#v\n", t)
			}
			return nil
		},
	}
}

func newASTCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "ast FILE",
		Short: "Print the parse tree of an lx source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			prog, err := lx.Parse(src)
			if err != nil {
				return lx.WrapErrorWithName(err, args[0], src)
			}
			fmt.Fprintln(stdout, prog)
			return nil
		},
	}
}
