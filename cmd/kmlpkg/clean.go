package main

import (
	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/kmlpkg"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

var (
	cleanDryRun bool
	cleanAll    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stage stamps and the package info",
	Long: `Remove the stamp files of the stages and the package info so that the
next build runs all stages. With --all the source, build and package
folders are removed too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		prj, err := s.cfg.Project()
		if err != nil {
			return err
		}
		if err := gomkore.Clean(prj, cleanDryRun, s.trace); err != nil {
			return err
		}
		if !cleanAll || cleanDryRun {
			return nil
		}
		bd, err := gomkore.NewBuilder(s.trace, s.env)
		if err != nil {
			return err
		}
		return bd.NamedGoals(prj, kmlpkg.StageClean)
	},
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "n", false, "Only report what would be removed")
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Also remove source, build and package folders")
	rootCmd.AddCommand(cleanCmd)
}
