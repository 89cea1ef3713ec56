package kmlpkg

import (
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestWriteTracer_levels(t *testing.T) {
	var sb strings.Builder
	wt := &WriteTracer{W: &sb}
	tr := gomkore.NewTrace(t.Context(), wt)

	testerr.Shall(wt.ParseLevel("warn")).BeNil(t)
	tr.Info("not shown")
	tr.Warn("cannot remove `goal`", `goal`, "package/")
	if s := sb.String(); !strings.Contains(s, "WARN  cannot remove package/") || strings.Contains(s, "not shown") {
		t.Errorf("warn output:\n%s", s)
	}

	sb.Reset()
	testerr.Shall(wt.ParseLevel("debug")).BeNil(t)
	tr.Debug("exec `cmd`", `cmd`, "cmake")
	if s := sb.String(); !strings.Contains(s, "DEBUG exec cmake") {
		t.Errorf("debug output:\n%s", s)
	}

	sb.Reset()
	testerr.Shall(wt.ParseLevel("off")).BeNil(t)
	tr.Warn("silent")
	if sb.Len() != 0 {
		t.Errorf("output with trace off: %s", sb.String())
	}

	if err := wt.ParseLevel("loud"); err == nil {
		t.Error("no error for illegal level")
	}
}

func TestWriteTracer_build(t *testing.T) {
	var sb strings.Builder
	wt := &WriteTracer{W: &sb, Level: gomkore.TraceWarn | gomkore.TraceInfo}
	prj := NewProject(t.TempDir())
	testerr.Shall(Edit(prj, func(prj ProjectEd) {
		prj.Goal(Abstract("info")).By(testOp{desc: "write info"})
	})).BeNil(t)
	bd := testerr.Shall1(gomkore.NewBuilder(gomkore.NewTrace(t.Context(), wt), nil)).BeNil(t)
	testerr.Shall(bd.Project(prj)).BeNil(t)
	out := sb.String()
	for _, expect := range []string{"{ building project", "run (write info)", "} building project"} {
		if !strings.Contains(out, expect) {
			t.Errorf("missing '%s' in:\n%s", expect, out)
		}
	}
}
