package kmlpkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/kmlpkg/conandata"
	"git.fractalqb.de/fractalqb/kmlpkg/fetch"
	"git.fractalqb.de/fractalqb/kmlpkg/mkfs"
	"git.fractalqb.de/fractalqb/kmlpkg/pkgdb"
	"git.fractalqb.de/fractalqb/kmlpkg/profile"
)

// Names of the abstract stage goals of a recipe project
const (
	StageSource  = "source"
	StageBuild   = "build"
	StagePackage = "package"
	StageInfo    = "info"
	// StageClean removes the source, build and package folders. It is a leaf
	// of the project, so build stages by name.
	StageClean = "clean"
)

// StampDir holds the stamp files of the stages, relative to the work dir.
const StampDir = ".kmlpkg"

// WrapperFile is the CMake wrapper a recipe may export. It is copied to the
// work dir, which then becomes the CMake source dir.
const WrapperFile = "CMakeLists.txt"

// Config is the configuration of one package build. Relative folders of the
// recipe are relative to WorkDir.
type Config struct {
	Recipe    *Recipe
	Version   string
	Profile   *profile.Profile
	Data      *conandata.Data
	RecipeDir string
	WorkDir   string
	CMake     *CMake
	Fetch     fetch.Getter

	// Registry is optional. If set, the package info stage registers the
	// package.
	Registry *pkgdb.DB

	wrapper string
}

// NewConfig loads the conandata of the recipe in recipeDir and checks profile
// p against recipe r. An empty version selects the latest version from the
// conandata.
func NewConfig(r *Recipe, recipeDir, workDir, version string, p *profile.Profile) (*Config, error) {
	var err error
	if recipeDir, err = filepath.Abs(recipeDir); err != nil {
		return nil, err
	}
	if workDir, err = filepath.Abs(workDir); err != nil {
		return nil, err
	}
	data, err := conandata.Load(filepath.Join(recipeDir, conandata.FileName))
	if err != nil {
		return nil, err
	}
	if version == "" {
		if version, err = data.Latest(); err != nil {
			return nil, err
		}
	} else if _, err = data.Source(version); err != nil {
		return nil, err
	}
	if p == nil {
		p = profile.Default()
	}
	if err := r.Validate(&p.Settings, &p.Options); err != nil {
		return nil, err
	}
	r.ConfigOptions(&p.Settings, &p.Options)
	cfg := &Config{
		Recipe:    r,
		Version:   version,
		Profile:   p,
		Data:      data,
		RecipeDir: recipeDir,
		WorkDir:   workDir,
	}
	srcDir := r.SourceSubfolder
	wrapper := filepath.Join(recipeDir, WrapperFile)
	switch _, err := os.Stat(wrapper); {
	case err == nil:
		cfg.wrapper = wrapper
		srcDir = "."
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	cfg.CMake = NewCMake(p, srcDir, r.BuildSubfolder, filepath.Join(workDir, r.PackageFolder))
	return cfg, nil
}

func (cfg *Config) Ref() string { return cfg.Recipe.Ref(cfg.Version) }

func (cfg *Config) PackageID() string {
	return PackageID(&cfg.Profile.Settings, &cfg.Profile.Options)
}

func (cfg *Config) stamp(stage string) mkfs.File {
	return mkfs.File(filepath.Join(StampDir, stage+".stamp"))
}

// Project creates the goal graph of the package build in cfg.WorkDir. The
// stages are reached through stamp files and the generated cppinfo.toml.
// Each stage is also reachable by its abstract stage goal.
func (cfg *Config) Project() (*Project, error) {
	patches, err := cfg.Data.Patches(cfg.Version)
	if err != nil {
		return nil, err
	}
	prj := NewProject(cfg.WorkDir)
	err = Edit(prj, func(prj ProjectEd) {
		prems := []GoalEd{prj.Goal(mkfs.File(filepath.Join(cfg.RecipeDir, conandata.FileName)))}
		for _, p := range patches {
			prems = append(prems, prj.Goal(mkfs.File(filepath.Join(cfg.RecipeDir, p.PatchFile))))
		}
		src := prj.Goal(cfg.stamp(StageSource)).SetRemovable(true).
			By(&SourceOp{Cfg: cfg}, prems...)
		bldPrems := []GoalEd{src}
		if cfg.wrapper != "" {
			bldPrems = append(bldPrems, prj.Goal(mkfs.File(WrapperFile)).SetRemovable(true).
				By(mkfs.Copy{}, prj.Goal(mkfs.File(cfg.wrapper))))
		}
		bld := prj.Goal(cfg.stamp(StageBuild)).SetRemovable(true).
			By(&BuildOp{Cfg: cfg}, bldPrems...)
		pkg := prj.Goal(cfg.stamp(StagePackage)).SetRemovable(true).
			By(&PackageOp{Cfg: cfg}, bld)
		info := prj.Goal(mkfs.File(filepath.Join(cfg.Recipe.PackageFolder, CppInfoFile))).
			SetRemovable(true).
			By(&PackageInfoOp{Cfg: cfg}, pkg)

		prj.Goal(Abstract(StageSource)).ImpliedBy(src)
		prj.Goal(Abstract(StageBuild)).ImpliedBy(bld)
		prj.Goal(Abstract(StagePackage)).ImpliedBy(pkg)
		prj.Goal(Abstract(StageInfo)).ImpliedBy(info)
		prj.Goal(Abstract(StageClean)).By(mkfs.RemoveDirs{
			cfg.Recipe.SourceSubfolder,
			cfg.Recipe.BuildSubfolder,
			cfg.Recipe.PackageFolder,
			StampDir,
			WrapperFile,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("recipe project %s: %w", cfg.Ref(), err)
	}
	return prj, nil
}
