// Package profile reads the build profile: the settings of the target
// platform and toolchain, the package options and the install roots of the
// required packages.
package profile

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

type Compiler struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
	Libcxx  string `toml:"libcxx,omitempty"`
	Runtime string `toml:"runtime,omitempty"`
}

type Settings struct {
	OS        string   `toml:"os"`
	Arch      string   `toml:"arch"`
	BuildType string   `toml:"build_type"`
	Compiler  Compiler `toml:"compiler"`
}

// Map returns the settings with conan-style keys. Empty settings are left
// out.
func (s *Settings) Map() map[string]string {
	m := make(map[string]string)
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("os", s.OS)
	set("arch", s.Arch)
	set("build_type", s.BuildType)
	set("compiler", s.Compiler.Name)
	set("compiler.version", s.Compiler.Version)
	set("compiler.libcxx", s.Compiler.Libcxx)
	set("compiler.runtime", s.Compiler.Runtime)
	return m
}

// Options are the package options. A nil FPIC means the option is not set by
// the profile. The recipe decides its default or drops it, e.g. on Windows.
type Options struct {
	Shared bool  `toml:"shared"`
	FPIC   *bool `toml:"fPIC,omitempty"`
}

func (o *Options) Map() map[string]string {
	m := map[string]string{"shared": strconv.FormatBool(o.Shared)}
	if o.FPIC != nil {
		m["fPIC"] = strconv.FormatBool(*o.FPIC)
	}
	return m
}

type Profile struct {
	Settings Settings `toml:"settings"`
	Options  Options  `toml:"options"`

	// Deps maps required package names to their install roots.
	Deps map[string]string `toml:"deps,omitempty"`
}

// Default returns the profile for the host with a release build of shared
// libraries.
func Default() *Profile {
	return &Profile{
		Settings: Settings{
			OS:        HostOS(runtime.GOOS),
			Arch:      HostArch(runtime.GOARCH),
			BuildType: "Release",
		},
		Options: Options{Shared: true},
	}
}

// Load reads the profile at path. Unset values are taken from [Default].
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func Parse(raw []byte) (*Profile, error) {
	p := Default()
	if err := toml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

func HostOS(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "darwin":
		return "Macos"
	case "freebsd":
		return "FreeBSD"
	}
	return goos
}

func HostArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	case "arm":
		return "armv7"
	}
	return goarch
}
