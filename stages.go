package kmlpkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.fractalqb.de/fractalqb/kmlpkg/fetch"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/kmlpkg/linkorder"
	"git.fractalqb.de/fractalqb/kmlpkg/mkfs"
	"git.fractalqb.de/fractalqb/kmlpkg/patch"
	"git.fractalqb.de/fractalqb/kmlpkg/pkgdb"
)

// SourceOp retrieves the upstream sources into the source subfolder and
// applies the recipe's patches.
type SourceOp struct{ Cfg *Config }

var _ gomkore.Operation = (*SourceOp)(nil)

func (op *SourceOp) Describe(*Action, *Env) string { return "source " + op.Cfg.Ref() }

func (op *SourceOp) Do(tr *Trace, a *Action, env *Env) error {
	cfg := op.Cfg
	prj := a.Project()
	src, err := cfg.Data.Source(cfg.Version)
	if err != nil {
		return err
	}
	srcDir := inPrj(prj, cfg.Recipe.SourceSubfolder)
	extracted := cfg.Recipe.Name + "-" + cfg.Version
	for _, d := range []string{srcDir, inPrj(prj, extracted)} {
		if err := os.RemoveAll(d); err != nil {
			return err
		}
	}
	getter := cfg.Fetch
	if getter.Log == nil {
		getter.Log = env.Log
	}
	top, err := getter.Get(tr.Ctx(), fetch.Source{URL: src.URL, SHA256: src.SHA256}, prj.Dir)
	if err != nil {
		return err
	}
	if top != "" && top != extracted {
		tr.Warn("sources unpacked to `dir`, not `expected`", `dir`, top, `expected`, extracted)
		extracted = top
	}
	tr.Debug("rename `from` to `to`", `from`, extracted, `to`, cfg.Recipe.SourceSubfolder)
	if err := os.Rename(inPrj(prj, extracted), srcDir); err != nil {
		return fmt.Errorf("source subfolder: %w", err)
	}

	patches, err := cfg.Data.Patches(cfg.Version)
	if err != nil {
		return err
	}
	for _, p := range patches {
		tr.Info("apply `patch` in `base`", `patch`, p.PatchFile, `base`, p.BasePath)
		err := patch.File(
			inPrj(prj, p.BasePath),
			filepath.Join(cfg.RecipeDir, p.PatchFile),
			p.StripOrDefault(),
		)
		if err != nil {
			return err
		}
	}
	return touchResults(a)
}

// BuildOp configures and builds the sources with CMake.
type BuildOp struct{ Cfg *Config }

var _ gomkore.Operation = (*BuildOp)(nil)

func (op *BuildOp) Describe(*Action, *Env) string { return "build " + op.Cfg.Ref() }

func (op *BuildOp) Do(tr *Trace, a *Action, env *Env) error {
	cm := op.Cfg.cmake(env)
	if err := cm.ConfigureOp().Do(tr, a, env); err != nil {
		return err
	}
	if err := cm.BuildOp().Do(tr, a, env); err != nil {
		return err
	}
	return touchResults(a)
}

// PackageOp installs the build into the package folder together with the
// license. CMake config and pkg-config files are not packaged.
type PackageOp struct{ Cfg *Config }

var _ gomkore.Operation = (*PackageOp)(nil)

func (op *PackageOp) Describe(*Action, *Env) string { return "package " + op.Cfg.Ref() }

func (op *PackageOp) Do(tr *Trace, a *Action, env *Env) error {
	cfg := op.Cfg
	prj := a.Project()
	pkgDir := inPrj(prj, cfg.Recipe.PackageFolder)
	if err := os.RemoveAll(pkgDir); err != nil {
		return err
	}
	licDir := filepath.Join(pkgDir, "licenses")
	if err := os.MkdirAll(licDir, 0777); err != nil {
		return err
	}
	err := mkfs.CopyFile(
		filepath.Join(licDir, "COPYING"),
		inPrj(prj, filepath.Join(cfg.Recipe.SourceSubfolder, "COPYING")),
	)
	if err != nil {
		return fmt.Errorf("package license: %w", err)
	}
	if err := cfg.cmake(env).InstallOp().Do(tr, a, env); err != nil {
		return err
	}
	rm := mkfs.RemoveDirs{
		filepath.Join(cfg.Recipe.PackageFolder, "lib", "cmake"),
		filepath.Join(cfg.Recipe.PackageFolder, "lib", "pkgconfig"),
		filepath.Join(cfg.Recipe.PackageFolder, "cmake"),
	}
	if err := rm.Do(tr, a, env); err != nil {
		return err
	}
	return touchResults(a)
}

// PackageInfoOp collects the packaged libraries in link order and writes
// them to cppinfo.toml. The package is registered if the configuration has a
// registry.
type PackageInfoOp struct{ Cfg *Config }

var _ gomkore.Operation = (*PackageInfoOp)(nil)

func (op *PackageInfoOp) Describe(*Action, *Env) string { return "package info " + op.Cfg.Ref() }

func (op *PackageInfoOp) Do(tr *Trace, a *Action, env *Env) error {
	cfg := op.Cfg
	prj := a.Project()
	libs, err := mkfs.CollectLibs(inPrj(prj, filepath.Join(cfg.Recipe.PackageFolder, "lib")))
	if err != nil {
		return err
	}
	libs = linkorder.Resolve(libs)
	env.Log.Info("LIBRARIES", "libs", libs)

	session := tr.Session()
	if session == "" {
		session = uuid.NewString()
	}
	info := CppInfo{
		Name:        cfg.Recipe.Name,
		Version:     cfg.Version,
		PackageID:   cfg.PackageID(),
		Session:     session,
		Libs:        libs,
		LibDirs:     []string{"lib"},
		IncludeDirs: []string{"include"},
		BinDirs:     []string{"bin"},
		Settings:    cfg.Profile.Settings.Map(),
		Options:     cfg.Profile.Options.Map(),
	}
	res, err := Goals(a.Results(), true, Tangible, AType[mkfs.File])
	if err != nil {
		return fmt.Errorf("package info result: %w", err)
	}
	if len(res) != 1 {
		return fmt.Errorf("package info has %d result files", len(res))
	}
	out := res[0].Artefact.(mkfs.File)
	if err := info.WriteFile(inPrj(prj, out.Path())); err != nil {
		return err
	}
	tr.Info("wrote `file` of `package`", `file`, out.Path(), `package`, info.PackageID)
	if cfg.Registry == nil {
		return nil
	}
	return cfg.Registry.Record(tr.Ctx(), &pkgdb.Package{
		Ref:      cfg.Ref(),
		ID:       info.PackageID,
		Session:  session,
		Settings: info.Settings,
		Options:  info.Options,
		Libs:     libs,
	})
}

// cmake returns the CMake driver for env. The env tag CMAKE overrides the
// executable.
func (cfg *Config) cmake(env *Env) *CMake {
	exe, ok := env.Tag("CMAKE")
	if !ok || exe == "" {
		return cfg.CMake
	}
	cm := *cfg.CMake
	cm.Exe = exe
	return &cm
}

func touchResults(a *Action) error {
	files, _ := Goals(a.Results(), false, AType[mkfs.File])
	for _, g := range files {
		if err := g.Artefact.(mkfs.File).Touch(a.Project()); err != nil {
			return err
		}
	}
	return nil
}

// inPrj resolves p against the project directory.
func inPrj(prj *Project, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(prj.Dir, p)
}
