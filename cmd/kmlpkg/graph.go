package main

import (
	"github.com/spf13/cobra"
)

var graphRankDir string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Write the build graph in Graphviz dot format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		prj, err := s.cfg.Project()
		if err != nil {
			return err
		}
		_, err = prj.WriteDot(cmd.OutOrStdout(), graphRankDir)
		return err
	},
}

func init() {
	graphCmd.Flags().StringVar(&graphRankDir, "rankdir", "LR", "Graphviz rank direction")
	rootCmd.AddCommand(graphCmd)
}
