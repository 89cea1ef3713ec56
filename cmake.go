package kmlpkg

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"git.fractalqb.de/fractalqb/kmlpkg/profile"
)

// CMake describes how to drive the CMake build of the package sources.
// Directories are relative to the project directory or absolute.
type CMake struct {
	Exe       string
	Generator string
	BuildType string
	SourceDir string
	BuildDir  string
	Prefix    string
	Jobs      int
	Defs      map[string]string
}

// NewCMake derives the CMake definitions from profile p. The install roots of
// the dependencies in p become CMAKE_PREFIX_PATH.
func NewCMake(p *profile.Profile, srcDir, buildDir, prefix string) *CMake {
	cm := &CMake{
		Exe:       "cmake",
		BuildType: p.Settings.BuildType,
		SourceDir: srcDir,
		BuildDir:  buildDir,
		Prefix:    prefix,
		Defs: map[string]string{
			"CMAKE_BUILD_TYPE":     p.Settings.BuildType,
			"BUILD_SHARED_LIBS":    onOff(p.Options.Shared),
			"CMAKE_INSTALL_PREFIX": filepath.ToSlash(prefix),
		},
	}
	if p.Options.FPIC != nil {
		cm.Defs["CMAKE_POSITION_INDEPENDENT_CODE"] = onOff(*p.Options.FPIC)
	}
	if len(p.Deps) > 0 {
		var roots []string
		for _, dep := range slices.Sorted(maps.Keys(p.Deps)) {
			roots = append(roots, filepath.ToSlash(p.Deps[dep]))
		}
		cm.Defs["CMAKE_PREFIX_PATH"] = strings.Join(roots, ";")
	}
	return cm
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func (cm *CMake) op(args []string, desc string) *CmdOp {
	exe := cm.Exe
	if exe == "" {
		exe = "cmake"
	}
	return &CmdOp{
		CWD:        ".",
		Exe:        exe,
		Args:       args,
		Desc:       desc,
		LinePrefix: "cmake| ",
	}
}

// ConfigureOp returns the operation that generates the build system.
// Definitions are passed in sorted key order.
func (cm *CMake) ConfigureOp() *CmdOp {
	args := []string{"-S", cm.SourceDir, "-B", cm.BuildDir}
	if cm.Generator != "" {
		args = append(args, "-G", cm.Generator)
	}
	for _, k := range slices.Sorted(maps.Keys(cm.Defs)) {
		args = append(args, fmt.Sprintf("-D%s=%s", k, cm.Defs[k]))
	}
	return cm.op(args, "cmake configure " + cm.SourceDir)
}

func (cm *CMake) BuildOp() *CmdOp {
	args := []string{"--build", cm.BuildDir, "--config", cm.BuildType}
	if cm.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(cm.Jobs))
	}
	return cm.op(args, "cmake build " + cm.BuildDir)
}

func (cm *CMake) InstallOp() *CmdOp {
	args := []string{"--install", cm.BuildDir, "--config", cm.BuildType}
	if cm.Prefix != "" {
		args = append(args, "--prefix", cm.Prefix)
	}
	return cm.op(args, "cmake install " + cm.Prefix)
}
