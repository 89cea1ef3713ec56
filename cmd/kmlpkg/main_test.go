package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg"
	"git.fractalqb.de/fractalqb/kmlpkg/conandata"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestOrderCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"order", "libkmldom.so", "libfoo.so", "libkmlbase.so", "libkmlconvenience.so"})
	testerr.Shall(rootCmd.ExecuteContext(t.Context())).BeNil(t)
	const expect = "libkmlconvenience.so\nlibkmldom.so\nlibkmlbase.so\nlibfoo.so\n"
	if s := out.String(); s != expect {
		t.Errorf("order output:\n%s", s)
	}
}

func TestNewLogger_badLevel(t *testing.T) {
	rootCmd.SetArgs([]string{"order", "--log-level", "chatty"})
	testerr.Shall(rootCmd.ExecuteContext(t.Context())).BeNil(t)
	if _, err := newLogger(); err == nil {
		t.Error("no error for unknown log level")
	}
}

func TestApplyEnv(t *testing.T) {
	root := &gomkore.Env{}
	root.SetTags("CC=gcc", "CXX=g++")
	env := root.Sub()
	applyEnv(env, []string{"CMAKE_GENERATOR=Ninja", "-CC"})
	if _, ok := env.Tag("CC"); ok {
		t.Error("CC not removed")
	}
	if v, _ := env.Tag("CMAKE_GENERATOR"); v != "Ninja" {
		t.Errorf("CMAKE_GENERATOR is '%s'", v)
	}
	if v, _ := root.Tag("CC"); v != "gcc" {
		t.Errorf("parent CC changed to '%s'", v)
	}
}

func TestShowCmd_info(t *testing.T) {
	tmp := t.TempDir()
	recipeDir, workDir := filepath.Join(tmp, "recipe"), filepath.Join(tmp, "work")
	testerr.Shall(os.MkdirAll(recipeDir, 0777)).BeNil(t)
	testerr.Shall(os.WriteFile(filepath.Join(recipeDir, conandata.FileName), []byte(`sources:
  "1.3.0":
    url: "https://github.com/libkml/libkml/archive/1.3.0.tar.gz"
`), 0644)).BeNil(t)
	pkgDir := filepath.Join(workDir, kmlpkg.Libkml.PackageFolder)
	testerr.Shall(os.MkdirAll(pkgDir, 0777)).BeNil(t)
	info := kmlpkg.CppInfo{
		Name:      "libkml",
		Version:   "1.3.0",
		PackageID: "abc",
		Libs:      []string{"kmldom", "kmlbase"},
	}
	testerr.Shall(info.WriteFile(filepath.Join(pkgDir, kmlpkg.CppInfoFile))).BeNil(t)

	t.Cleanup(func() { showInfo = false })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"show", "--info",
		"--recipe-dir", recipeDir,
		"--work-dir", workDir,
		"--log-level", "info",
	})
	testerr.Shall(rootCmd.ExecuteContext(t.Context())).BeNil(t)
	const expect = "# libkml/1.3.0:abc\nkmldom\nkmlbase\n"
	if s := out.String(); s != expect {
		t.Errorf("show output:\n%s", s)
	}
}
