package main

import (
	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/kmlpkg"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

func init() {
	rootCmd.AddCommand(
		stageCmd("create", kmlpkg.StageInfo, true,
			"Run all stages and register the package"),
		stageCmd("source", kmlpkg.StageSource, false,
			"Retrieve and patch the sources"),
		stageCmd("build", kmlpkg.StageBuild, false,
			"Build the sources with CMake"),
		stageCmd("package", kmlpkg.StagePackage, false,
			"Install the build into the package folder"),
		stageCmd("info", kmlpkg.StageInfo, true,
			"Write the package info and register the package"),
	)
}

func stageCmd(use, stage string, register bool, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if register {
				if err := s.openRegistry(); err != nil {
					return err
				}
			}
			prj, err := s.cfg.Project()
			if err != nil {
				return err
			}
			bd, err := gomkore.NewBuilder(s.trace, s.env)
			if err != nil {
				return err
			}
			return bd.NamedGoals(prj, stage)
		},
	}
}
