package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print lx's version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "lx version %v\n", version)
		},
	}
}
