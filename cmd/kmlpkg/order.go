package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/kmlpkg/linkorder"
)

var orderCmd = &cobra.Command{
	Use:   "order NAME...",
	Short: "Print library names in link order",
	Long: `Print the library names in the order they have to be passed to the
linker: libkml libraries that depend on others come first, names that are
not libkml libraries last.

Example:
  kmlpkg order libkmldom.so libkmlbase.so libkmlconvenience.so`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, lib := range linkorder.Resolve(args) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), lib); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
