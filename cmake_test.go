package kmlpkg

import (
	"slices"
	"testing"
)

func TestNewCMake(t *testing.T) {
	p := linuxProfile()
	p.Deps = map[string]string{"zlib": "/opt/zlib", "boost": "/opt/boost"}
	Libkml.ConfigOptions(&p.Settings, &p.Options)
	cm := NewCMake(p, "source_subfolder", "build_subfolder", "/work/package")
	cm.Generator = "Ninja"

	cfg := cm.ConfigureOp()
	expect := []string{
		"-S", "source_subfolder", "-B", "build_subfolder", "-G", "Ninja",
		"-DBUILD_SHARED_LIBS=ON",
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_INSTALL_PREFIX=/work/package",
		"-DCMAKE_POSITION_INDEPENDENT_CODE=ON",
		"-DCMAKE_PREFIX_PATH=/opt/boost;/opt/zlib",
	}
	if !slices.Equal(cfg.Args, expect) {
		t.Errorf("configure args %v", cfg.Args)
	}
	if cfg.Exe != "cmake" {
		t.Errorf("exe %s", cfg.Exe)
	}

	if args := cm.BuildOp().Args; !slices.Equal(args, []string{"--build", "build_subfolder", "--config", "Release"}) {
		t.Errorf("build args %v", args)
	}
	cm.Jobs = 4
	if args := cm.BuildOp().Args; !slices.Equal(args[4:], []string{"--parallel", "4"}) {
		t.Errorf("parallel build args %v", args)
	}
	if args := cm.InstallOp().Args; !slices.Equal(args, []string{
		"--install", "build_subfolder", "--config", "Release", "--prefix", "/work/package",
	}) {
		t.Errorf("install args %v", args)
	}
}

func TestNewCMake_windows(t *testing.T) {
	p := linuxProfile()
	p.Settings.OS = "Windows"
	p.Options.Shared = false
	Libkml.ConfigOptions(&p.Settings, &p.Options)
	cm := NewCMake(p, "src", "build", "pkg")
	if _, ok := cm.Defs["CMAKE_POSITION_INDEPENDENT_CODE"]; ok {
		t.Error("PIC definition without fPIC option")
	}
	if _, ok := cm.Defs["CMAKE_PREFIX_PATH"]; ok {
		t.Error("prefix path without deps")
	}
	if cm.Defs["BUILD_SHARED_LIBS"] != "OFF" {
		t.Errorf("BUILD_SHARED_LIBS=%s", cm.Defs["BUILD_SHARED_LIBS"])
	}
}
