package kmlpkg

import (
	"errors"
	"testing"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/kmlpkg/gomkore/mktest"
	"git.fractalqb.de/fractalqb/kmlpkg/mkfs"
	"git.fractalqb.de/fractalqb/testerr"
)

func TestGoals(t *testing.T) {
	prj := gomkore.NewProject(t.Name())
	g1 := testerr.Should1(prj.Goal(gomkore.Abstract("."))).BeNil(t)
	g2 := testerr.Should1(prj.Goal(mkfs.File("F"))).BeNil(t)
	gs := []*gomkore.Goal{g1, g2}

	t.Run("not exclusive", func(t *testing.T) {
		res := testerr.Shall1(Goals(gs, false, Tangible, AType[mkfs.File])).BeNil(t)
		if l := len(res); l != 1 {
			t.Fatalf("filter yields %d goals", l)
		}
		if res[0] != g2 {
			t.Fatalf("filtered wrong goal: %s", res[0])
		}
	})

	t.Run("exclusive fail", func(t *testing.T) {
		testerr.Shall1(Goals(gs, true, Tangible, AType[mkfs.Dir])).
			Check(t, testerr.Msg("illegal goal 1: F"))
	})
}

func TestEdit_recover(t *testing.T) {
	prj := NewProject(t.TempDir())
	err := Edit(prj, func(prj ProjectEd) {
		prj.Goal(mkfs.File("x"))
		prj.Goal(Abstract("x"))
	})
	if err == nil {
		t.Fatal("conflicting artefact types not reported")
	}
	err = Edit(prj, func(ProjectEd) { panic("stop") })
	if err == nil || err.Error() != "stop" {
		t.Errorf("unexpected error %v", err)
	}
}

// testOp counts its calls and fails with err.
type testOp struct {
	desc  string
	calls *int
	err   error
}

func (op testOp) Describe(*Action, *Env) string { return op.desc }

func (op testOp) Do(*Trace, *Action, *Env) error {
	if op.calls != nil {
		*op.calls++
	}
	return op.err
}

func TestEdit_ignoreError(t *testing.T) {
	prj := NewProject(t.TempDir())
	var calls int
	testerr.Shall(Edit(prj, func(prj ProjectEd) {
		prj.Goal(Abstract("count")).By(testOp{desc: "count", calls: &calls})
		prj.Goal(Abstract("fail")).By(testOp{desc: "fail", err: errors.New("failed")}).
			Goal().ResultOf()[0].IgnoreError = true
	})).BeNil(t)
	bd := testerr.Shall1(gomkore.NewBuilder(mktest.NewTrace(t), mktest.Env(t))).BeNil(t)
	testerr.Shall(bd.Project(prj)).BeNil(t)
	testerr.Shall(bd.NamedGoals(prj, "count")).BeNil(t)
	if calls != 2 {
		t.Errorf("%d calls in 2 builds", calls)
	}
}
