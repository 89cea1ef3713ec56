package gomkore

import (
	"testing"
	"time"
)

type logTracer struct{ t *testing.T }

var _ Tracer = logTracer{}

func (tr logTracer) Debug(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"DEBUG", msg}, args...)...)
}

func (tr logTracer) Info(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"INFO", msg}, args...)...)
}

func (tr logTracer) Warn(t *Trace, msg string, args ...any) {
	tr.t.Log(append([]any{"WARN", msg}, args...)...)
}

func (tr logTracer) StartProject(t *Trace, p *Project, activity string) {
	tr.t.Logf("start %s %s", activity, p)
}

func (tr logTracer) DoneProject(t *Trace, p *Project, activity string, dt time.Duration) {
	tr.t.Logf("done %s %s", activity, p)
}

func (tr logTracer) RunAction(t *Trace, a *Action) { tr.t.Logf("run %s", a) }

func (tr logTracer) RunImplicitAction(t *Trace, a *Action) { tr.t.Logf("implicit %s", a) }

func (tr logTracer) ScheduleResTimeZero(t *Trace, a *Action, res *Goal) {}

func (tr logTracer) ScheduleNotPremises(t *Trace, a *Action, res *Goal) {}

func (tr logTracer) SchedulePreTimeZero(t *Trace, a *Action, res, pre *Goal) {}

func (tr logTracer) ScheduleOutdated(t *Trace, a *Action, res, pre *Goal) {}

func (tr logTracer) CheckGoal(t *Trace, g *Goal) {}

func (tr logTracer) GoalUpToDate(t *Trace, g *Goal) { tr.t.Logf("up-to-date %s", g) }

func (tr logTracer) GoalNeedsActions(t *Trace, g *Goal, n int) {}

func (tr logTracer) RemoveArtefact(t *Trace, g *Goal) { tr.t.Logf("remove %s", g) }
