package kmlpkg

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"git.fractalqb.de/fractalqb/kmlpkg/profile"
)

// Requirement is a reference name/version of a package the recipe depends on.
type Requirement struct {
	Name    string
	Version string
	// Options imposed on the required package
	Options map[string]string
}

func (r Requirement) String() string { return r.Name + "/" + r.Version }

// Recipe holds the metadata of a package recipe.
type Recipe struct {
	Name        string
	Description string
	License     string
	URL         string
	Homepage    string
	Topics      []string
	Requires    []Requirement

	// ExportsSources are recipe files, as globs, needed to build from source
	ExportsSources []string

	SourceSubfolder string
	BuildSubfolder  string
	PackageFolder   string
}

// Libkml is the recipe of the libkml package.
var Libkml = Recipe{
	Name:        "libkml",
	Description: "Reference implementation of OGC KML 2.2",
	License:     "BSD-3-Clause",
	URL:         "https://github.com/conan-io/conan-center-index",
	Homepage:    "https://github.com/libkml/libkml",
	Topics:      []string{"conan", "libkml", "kml", "ogc", "geospatial"},
	Requires: []Requirement{
		{Name: "boost", Version: "1.72.0", Options: map[string]string{"header_only": "True"}},
		{Name: "expat", Version: "2.2.9"},
		{Name: "minizip", Version: "1.2.11"},
		{Name: "uriparser", Version: "0.9.3"},
		{Name: "zlib", Version: "1.2.11"},
	},
	ExportsSources:  []string{"CMakeLists.txt", "patches/**"},
	SourceSubfolder: "source_subfolder",
	BuildSubfolder:  "build_subfolder",
	PackageFolder:   "package",
}

// Ref returns the package reference name/version.
func (r *Recipe) Ref(version string) string { return r.Name + "/" + version }

// InvalidConfiguration is returned for settings and options the recipe cannot
// be built with.
type InvalidConfiguration struct {
	Setting string
	Value   string
	Reason  string
}

func (e *InvalidConfiguration) Error() string {
	return fmt.Sprintf("invalid configuration %s=%s: %s", e.Setting, e.Value, e.Reason)
}

var buildTypes = []string{"Debug", "Release", "RelWithDebInfo", "MinSizeRel"}

// Validate checks settings and options as given by the profile, i.e. before
// [Recipe.ConfigOptions] applied the recipe defaults.
func (r *Recipe) Validate(s *profile.Settings, o *profile.Options) error {
	if !slices.Contains(buildTypes, s.BuildType) {
		return &InvalidConfiguration{
			Setting: "build_type",
			Value:   s.BuildType,
			Reason:  "must be one of " + strings.Join(buildTypes, ", "),
		}
	}
	switch s.Compiler.Name {
	case "gcc", "clang":
		if s.Compiler.Libcxx == "libstdc++" {
			return &InvalidConfiguration{
				Setting: "compiler.libcxx",
				Value:   s.Compiler.Libcxx,
				Reason:  r.Name + " requires the C++11 ABI, use libstdc++11",
			}
		}
	}
	if s.OS == "Windows" && o.FPIC != nil {
		return &InvalidConfiguration{
			Setting: "fPIC",
			Value:   fmt.Sprint(*o.FPIC),
			Reason:  "option does not exist on Windows",
		}
	}
	return nil
}

// ConfigOptions applies the recipe's option defaults for settings s. On
// Windows the fPIC option is removed.
func (r *Recipe) ConfigOptions(s *profile.Settings, o *profile.Options) {
	if s.OS == "Windows" {
		o.FPIC = nil
		return
	}
	if o.FPIC == nil {
		fpic := true
		o.FPIC = &fpic
	}
}

// PackageID computes the identity of the binary package built with settings
// s and options o. It is the hex SHA-1 of the sorted settings and options.
func PackageID(s *profile.Settings, o *profile.Options) string {
	h := sha1.New()
	section := func(name string, m map[string]string) {
		fmt.Fprintf(h, "[%s]\n", name)
		for _, k := range slices.Sorted(maps.Keys(m)) {
			fmt.Fprintf(h, "%s=%s\n", k, m[k])
		}
	}
	section("settings", s.Map())
	section("options", o.Map())
	return hex.EncodeToString(h.Sum(nil))
}
