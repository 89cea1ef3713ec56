package profile

import (
	"maps"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func TestParse(t *testing.T) {
	p := testerr.Shall1(Parse([]byte(`
[settings]
os = "Linux"
arch = "x86_64"
build_type = "Debug"

[settings.compiler]
name = "gcc"
version = "9"
libcxx = "libstdc++11"

[options]
shared = false

[deps]
boost = "/opt/boost"
zlib = "/opt/zlib"
`))).BeNil(t)
	expect := map[string]string{
		"os":               "Linux",
		"arch":             "x86_64",
		"build_type":       "Debug",
		"compiler":         "gcc",
		"compiler.version": "9",
		"compiler.libcxx":  "libstdc++11",
	}
	if m := p.Settings.Map(); !maps.Equal(m, expect) {
		t.Errorf("settings %v", m)
	}
	if m := p.Options.Map(); !maps.Equal(m, map[string]string{"shared": "false"}) {
		t.Errorf("options %v", m)
	}
	if p.Deps["boost"] != "/opt/boost" || len(p.Deps) != 2 {
		t.Errorf("deps %v", p.Deps)
	}
}

func TestParse_defaults(t *testing.T) {
	p := testerr.Shall1(Parse([]byte("[options]\nfPIC = false\n"))).BeNil(t)
	def := Default()
	if p.Settings.OS != def.Settings.OS || p.Settings.BuildType != "Release" {
		t.Errorf("settings not defaulted: %+v", p.Settings)
	}
	if !p.Options.Shared {
		t.Error("shared not defaulted")
	}
	if p.Options.FPIC == nil || *p.Options.FPIC {
		t.Error("explicit fPIC=false lost")
	}
}

func TestParse_invalid(t *testing.T) {
	if _, err := Parse([]byte("[settings\n")); err == nil {
		t.Error("no error for broken TOML")
	}
	if _, err := Parse([]byte("[options]\nshared = \"yes\"\n")); err == nil {
		t.Error("no error for string option")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.toml")
	testerr.Shall(os.WriteFile(path, []byte("[settings]\nos = \"Windows\"\n"), 0644)).BeNil(t)
	p := testerr.Shall1(Load(path)).BeNil(t)
	if p.Settings.OS != "Windows" {
		t.Errorf("os %s", p.Settings.OS)
	}
}

func TestHost(t *testing.T) {
	if o := HostOS("darwin"); o != "Macos" {
		t.Error(o)
	}
	if a := HostArch("arm64"); a != "armv8" {
		t.Error(a)
	}
	if a := HostArch("riscv64"); a != "riscv64" {
		t.Error(a)
	}
}
