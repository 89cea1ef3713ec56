package kmlpkg

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore/mktest"
	"git.fractalqb.de/fractalqb/kmlpkg/mkfs"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestCmdOp(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	prj := NewProject(t.TempDir())
	testerr.Shall(os.Mkdir(filepath.Join(prj.Dir, "sub"), 0777)).BeNil(t)
	out := filepath.Join(prj.Dir, "out.txt")
	op := &CmdOp{
		CWD:     "sub",
		Exe:     "sh",
		Args:    []string{"-c", "pwd; echo $KMLPKG_TEST"},
		OutFile: out,
	}
	var a *Action
	testerr.Shall(Edit(prj, func(prj ProjectEd) {
		a = prj.Goal(mkfs.File("out.txt")).By(op).Goal().ResultOf()[0]
	})).BeNil(t)
	env := mktest.Env(t)
	env.SetTag("KMLPKG_TEST", "libkml")
	testerr.Shall(op.Do(mktest.NewTrace(t), a, env)).BeNil(t)
	lines := strings.Fields(string(testerr.Shall1(os.ReadFile(out)).BeNil(t)))
	if len(lines) != 2 || filepath.Base(lines[0]) != "sub" || lines[1] != "libkml" {
		t.Errorf("unexpected output %v", lines)
	}
}

func TestCmdOp_fail(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	op := &CmdOp{Exe: "sh", Args: []string{"-c", "exit 3"}}
	err := op.Do(mktest.NewTrace(t), nil, mktest.Env(t))
	if err == nil || !strings.HasPrefix(err.Error(), "sh: ") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCmdOp_Describe(t *testing.T) {
	op := &CmdOp{Exe: "/usr/bin/cmake", Args: []string{"--build", "build_subfolder"}}
	if d := op.Describe(nil, nil); d != "cmake$/usr/bin/cmake --build build_subfolder" {
		t.Errorf("description '%s'", d)
	}
	op.Desc = "cmake build"
	if d := op.Describe(nil, nil); d != "cmake build" {
		t.Errorf("description '%s'", d)
	}
}
