package kmlpkg

import (
	"errors"
	"fmt"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg/profile"
)

func linuxProfile() *profile.Profile {
	p := profile.Default()
	p.Settings.OS = "Linux"
	p.Settings.Arch = "x86_64"
	p.Settings.Compiler = profile.Compiler{Name: "gcc", Version: "9", Libcxx: "libstdc++11"}
	return p
}

func TestRecipe_Validate(t *testing.T) {
	fpic := false
	for _, c := range []struct {
		name    string
		edit    func(*profile.Profile)
		setting string
	}{
		{"ok", func(*profile.Profile) {}, ""},
		{"build type", func(p *profile.Profile) { p.Settings.BuildType = "Fast" }, "build_type"},
		{"old abi", func(p *profile.Profile) { p.Settings.Compiler.Libcxx = "libstdc++" }, "compiler.libcxx"},
		{"clang old abi", func(p *profile.Profile) {
			p.Settings.Compiler = profile.Compiler{Name: "clang", Libcxx: "libstdc++"}
		}, "compiler.libcxx"},
		{"msvc", func(p *profile.Profile) {
			p.Settings.OS = "Windows"
			p.Settings.Compiler = profile.Compiler{Name: "msvc", Runtime: "dynamic"}
		}, ""},
		{"windows fPIC", func(p *profile.Profile) {
			p.Settings.OS = "Windows"
			p.Options.FPIC = &fpic
		}, "fPIC"},
	} {
		t.Run(c.name, func(t *testing.T) {
			p := linuxProfile()
			c.edit(p)
			err := Libkml.Validate(&p.Settings, &p.Options)
			if c.setting == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			var ic *InvalidConfiguration
			if !errors.As(err, &ic) {
				t.Fatalf("expected invalid configuration, got %v", err)
			}
			if ic.Setting != c.setting {
				t.Errorf("invalid setting %s, want %s", ic.Setting, c.setting)
			}
		})
	}
}

func TestRecipe_ConfigOptions(t *testing.T) {
	p := linuxProfile()
	Libkml.ConfigOptions(&p.Settings, &p.Options)
	if p.Options.FPIC == nil || !*p.Options.FPIC {
		t.Error("fPIC not defaulted to true")
	}
	p.Settings.OS = "Windows"
	Libkml.ConfigOptions(&p.Settings, &p.Options)
	if p.Options.FPIC != nil {
		t.Error("fPIC not removed on Windows")
	}
}

func TestPackageID(t *testing.T) {
	p := linuxProfile()
	Libkml.ConfigOptions(&p.Settings, &p.Options)
	id := PackageID(&p.Settings, &p.Options)
	if len(id) != 40 {
		t.Fatalf("package id '%s'", id)
	}
	if again := PackageID(&p.Settings, &p.Options); again != id {
		t.Errorf("package id not deterministic: %s / %s", id, again)
	}
	p.Options.Shared = false
	if static := PackageID(&p.Settings, &p.Options); static == id {
		t.Error("shared option does not change package id")
	}
}

func ExampleRecipe_Ref() {
	fmt.Println(Libkml.Ref("1.3.0"))
	fmt.Println(Libkml.Requires[0])
	// Output:
	// libkml/1.3.0
	// boost/1.72.0
}
