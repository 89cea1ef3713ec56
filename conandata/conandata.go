// Package conandata reads the table of source archives and patches per
// upstream version of the recipe, conventionally stored in conandata.yml.
package conandata

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional name of the file in the recipe directory.
const FileName = "conandata.yml"

var ErrNoVersion = errors.New("version not in conandata")

// Source is the location and checksum of an upstream source archive.
type Source struct {
	URL    string `yaml:"url"`
	SHA256 string `yaml:"sha256,omitempty"`
}

// Patch is a patch file, relative to the recipe directory, that is applied
// in BasePath below the build folder.
type Patch struct {
	PatchFile string `yaml:"patch_file"`
	BasePath  string `yaml:"base_path,omitempty"`
	Strip     *int   `yaml:"strip,omitempty"`
}

// StripOrDefault returns the number of leading path components to strip from
// the file names in the patch. The default is 1.
func (p Patch) StripOrDefault() int {
	if p.Strip == nil {
		return 1
	}
	return *p.Strip
}

type Data struct {
	Sources        map[string]Source  `yaml:"sources"`
	VersionPatches map[string][]Patch `yaml:"patches,omitempty"`
}

func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conandata: %w", err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse conandata: %w", err)
	}
	for v, src := range d.Sources {
		if src.URL == "" {
			return nil, fmt.Errorf("conandata source %s without url", v)
		}
	}
	for v, ps := range d.VersionPatches {
		for i, p := range ps {
			if p.PatchFile == "" {
				return nil, fmt.Errorf("conandata patch %d of %s without patch_file", i, v)
			}
		}
	}
	return &d, nil
}

func (d *Data) Source(version string) (Source, error) {
	src, ok := d.Sources[version]
	if !ok {
		return src, fmt.Errorf("source %s: %w", version, ErrNoVersion)
	}
	return src, nil
}

// Patches returns the patches of version. A version without patches is fine
// as long as it has a source.
func (d *Data) Patches(version string) ([]Patch, error) {
	if _, ok := d.Sources[version]; !ok {
		return nil, fmt.Errorf("patches %s: %w", version, ErrNoVersion)
	}
	return d.VersionPatches[version], nil
}

// Versions returns the versions with sources, oldest first. Dot-separated
// numeric components compare numerically.
func (d *Data) Versions() []string {
	vs := make([]string, 0, len(d.Sources))
	for v := range d.Sources {
		vs = append(vs, v)
	}
	slices.SortFunc(vs, CompareVersions)
	return vs
}

// Latest returns the newest version with a source.
func (d *Data) Latest() (string, error) {
	vs := d.Versions()
	if len(vs) == 0 {
		return "", fmt.Errorf("latest: %w", ErrNoVersion)
	}
	return vs[len(vs)-1], nil
}

// CompareVersions compares dot-separated versions component wise. Numeric
// components compare as numbers, others lexically.
func CompareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		var c int
		if aerr == nil && berr == nil {
			c = an - bn
		} else {
			c = strings.Compare(as[i], bs[i])
		}
		if c != 0 {
			if c < 0 {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}
