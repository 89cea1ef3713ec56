package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"git.fractalqb.de/fractalqb/kmlpkg"
)

var (
	showAll  bool
	showID   string
	showInfo bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show registered packages",
	Long: `Show the libraries of the registered package built with the current
profile, of the package with the given ID or of all packages of the
version. With --info the libraries are read from the package info in the
work dir instead of the registry.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Show all packages of the version")
	showCmd.Flags().StringVar(&showID, "id", "", "Package ID, default is the ID of the current profile")
	showCmd.Flags().BoolVar(&showInfo, "info", false, "Read the package info file, not the registry")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	out := cmd.OutOrStdout()
	if showInfo {
		info, err := kmlpkg.ReadCppInfo(filepath.Join(
			s.cfg.WorkDir,
			s.cfg.Recipe.PackageFolder,
			kmlpkg.CppInfoFile,
		))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s/%s:%s\n", info.Name, info.Version, info.PackageID)
		for _, lib := range info.Libs {
			fmt.Fprintln(out, lib)
		}
		return nil
	}
	if err := s.openRegistry(); err != nil {
		return err
	}
	db := s.cfg.Registry
	if showAll {
		pkgs, err := db.List(cmd.Context(), s.cfg.Ref())
		if err != nil {
			return err
		}
		for _, pkg := range pkgs {
			fmt.Fprintf(out, "%s:%s\t%s\t%s\n",
				pkg.Ref,
				pkg.ID,
				pkg.Created.Format("2006-01-02 15:04:05"),
				strings.Join(pkg.Libs, " "),
			)
		}
		return nil
	}
	id := showID
	if id == "" {
		id = s.cfg.PackageID()
	}
	pkg, err := db.Lookup(cmd.Context(), s.cfg.Ref(), id)
	if err != nil {
		return err
	}
	for _, lib := range pkg.Libs {
		fmt.Fprintln(out, lib)
	}
	return nil
}
