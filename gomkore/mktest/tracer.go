// Package mktest provides helpers for testing recipe operations.
package mktest

import (
	"context"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

// Tracer forwards all trace events to the test log.
type Tracer struct{ T testing.TB }

var _ gomkore.Tracer = Tracer{}

// NewTrace returns a trace that logs to t and is canceled when t ends.
func NewTrace(t testing.TB) *gomkore.Trace {
	return gomkore.NewTrace(t.Context(), Tracer{t})
}

// NewTraceCtx is like [NewTrace] with an explicit context.
func NewTraceCtx(ctx context.Context, t testing.TB) *gomkore.Trace {
	return gomkore.NewTrace(ctx, Tracer{t})
}

// Env returns an environment that logs to t and writes command output to
// the test log.
func Env(t testing.TB) *gomkore.Env {
	w := logWriter{t}
	return &gomkore.Env{Out: w, Err: w, Log: Logger(t)}
}

func (tr Tracer) Debug(t *gomkore.Trace, msg string, args ...any) {
	tr.T.Log(append([]any{"kmlpkg-DEBUG:", msg}, args...)...)
}

func (tr Tracer) Info(t *gomkore.Trace, msg string, args ...any) {
	tr.T.Log(append([]any{"kmlpkg-INFO:", msg}, args...)...)
}

func (tr Tracer) Warn(t *gomkore.Trace, msg string, args ...any) {
	tr.T.Log(append([]any{"kmlpkg-WARN:", msg}, args...)...)
}

func (tr Tracer) StartProject(t *gomkore.Trace, p *gomkore.Project, activity string) {
	tr.T.Logf("kmlpkg-StartProject: %s %s", p, activity)
}

func (tr Tracer) DoneProject(t *gomkore.Trace, p *gomkore.Project, activity string, dt time.Duration) {
	tr.T.Logf("kmlpkg-DoneProject: %s %s %s", p, activity, dt)
}

func (tr Tracer) RunAction(_ *gomkore.Trace, a *gomkore.Action) {
	tr.T.Logf("kmlpkg-RunAction: %s", a)
}

func (tr Tracer) RunImplicitAction(_ *gomkore.Trace, a *gomkore.Action) {
	tr.T.Logf("kmlpkg-RunImplicitAction: %s", a)
}

func (tr Tracer) ScheduleResTimeZero(t *gomkore.Trace, a *gomkore.Action, res *gomkore.Goal) {
	tr.T.Logf("kmlpkg-ScheduleResTimeZero: %s:> %s", a, res)
}

func (tr Tracer) ScheduleNotPremises(t *gomkore.Trace, a *gomkore.Action, res *gomkore.Goal) {
	tr.T.Logf("kmlpkg-ScheduleNotPremises: %s:> %s", a, res)
}

func (tr Tracer) SchedulePreTimeZero(t *gomkore.Trace, a *gomkore.Action, res, pre *gomkore.Goal) {
	tr.T.Logf("kmlpkg-SchedulePreTimeZero: %s: %s > %s", a, pre, res)
}

func (tr Tracer) ScheduleOutdated(t *gomkore.Trace, a *gomkore.Action, res, pre *gomkore.Goal) {
	tr.T.Logf("kmlpkg-ScheduleOutdated: %s: %s > %s", a, pre, res)
}

func (tr Tracer) CheckGoal(t *gomkore.Trace, g *gomkore.Goal) {
	tr.T.Logf("kmlpkg-CheckGoal: %s", g)
}

func (tr Tracer) GoalUpToDate(t *gomkore.Trace, g *gomkore.Goal) {
	tr.T.Logf("kmlpkg-GoalUpToDate: %s", g)
}

func (tr Tracer) GoalNeedsActions(t *gomkore.Trace, g *gomkore.Goal, n int) {
	tr.T.Logf("kmlpkg-GoalNeedsActions: %s %d", g, n)
}

func (tr Tracer) RemoveArtefact(t *gomkore.Trace, g *gomkore.Goal) {
	tr.T.Logf("kmlpkg-RemoveArtefact: %s", g)
}
