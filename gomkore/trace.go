package gomkore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer receives the progress of builds and cleanups. Messages use sllm
// templates, i.e. arguments are referenced by backtick-quoted names.
type Tracer interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)

	StartProject(t *Trace, p *Project, activity string)
	DoneProject(t *Trace, p *Project, activity string, dt time.Duration)

	RunAction(t *Trace, a *Action)
	RunImplicitAction(t *Trace, a *Action)

	ScheduleResTimeZero(t *Trace, a *Action, res *Goal)
	ScheduleNotPremises(t *Trace, a *Action, res *Goal)
	SchedulePreTimeZero(t *Trace, a *Action, res, pre *Goal)
	ScheduleOutdated(t *Trace, a *Action, res, pre *Goal)

	CheckGoal(t *Trace, g *Goal)
	GoalUpToDate(t *Trace, g *Goal)
	GoalNeedsActions(t *Trace, g *Goal, n int)

	RemoveArtefact(t *Trace, g *Goal)
}

type TraceLevel int

const (
	TraceWarn TraceLevel = (1 << iota)
	TraceInfo
	TraceDebug
)

// ParseTraceLevel parses the trace level names used on the command line.
func ParseTraceLevel(f string) (TraceLevel, error) {
	switch f {
	case "off":
		return 0, nil
	case "", "warn", "w":
		return TraceWarn, nil
	case "info", "i":
		return TraceWarn | TraceInfo, nil
	case "debug", "d":
		return TraceWarn | TraceInfo | TraceDebug, nil
	}
	return 0, fmt.Errorf("illegal trace level '%s'", f)
}

// Trace is the position of a build in the project graph. A trace also carries
// the context of the build that operations shall respect.
type Trace struct {
	root *traceRoot
	up   *Trace
	obj  any
	id   uint64
}

func NewTrace(ctx context.Context, t Tracer) *Trace {
	if ctx == nil {
		ctx = context.Background()
	}
	root := &traceRoot{ctx: ctx, tr: t}
	return &Trace{root: root}
}

func (t *Trace) Ctx() context.Context { return t.root.ctx }

// Session is an optional ID of the build session, e.g. to label the
// registered packages.
func (t *Trace) Session() string { return t.root.session }

func (t *Trace) SetSession(id string) { t.root.session = id }

func (t *Trace) Debug(msg string, args ...any) { t.root.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.root.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.root.tr.Warn(t, msg, args...) }

func (t *Trace) startProject(p *Project, activity string) {
	t.root.prj = p
	t.root.tr.StartProject(t, p, activity)
}

func (t *Trace) doneProject(p *Project, activity string, dt time.Duration) {
	t.root.tr.DoneProject(t, p, activity, dt)
}

func (t *Trace) runAction(a *Action)         { t.root.tr.RunAction(t, a) }
func (t *Trace) runImplicitAction(a *Action) { t.root.tr.RunImplicitAction(t, a) }

func (t *Trace) scheduleResTimeZero(a *Action, res *Goal) {
	t.root.tr.ScheduleResTimeZero(t, a, res)
}

func (t *Trace) scheduleNotPremises(a *Action, res *Goal) {
	t.root.tr.ScheduleNotPremises(t, a, res)
}

func (t *Trace) schedulePreTimeZero(a *Action, res, pre *Goal) {
	t.root.tr.SchedulePreTimeZero(t, a, res, pre)
}

func (t *Trace) scheduleOutdated(a *Action, res, pre *Goal) {
	t.root.tr.ScheduleOutdated(t, a, res, pre)
}

func (t *Trace) checkGoal(g *Goal) { t.root.tr.CheckGoal(t, g) }

func (t *Trace) goalUpToDate(g *Goal) { t.root.tr.GoalUpToDate(t, g) }

func (t *Trace) goalNeedsActions(g *Goal, n int) {
	t.root.tr.GoalNeedsActions(t, g, n)
}

func (t *Trace) removeArtefact(g *Goal) { t.root.tr.RemoveArtefact(t, g) }

// Build returns the ID of the build the trace belongs to.
func (t *Trace) Build() BuildID {
	if t.root == nil || t.root.prj == nil {
		return 0
	}
	return t.root.prj.Build()
}

func (t *Trace) TopTag() string {
	switch t.obj.(type) {
	case *Goal:
		return fmt.Sprintf("[%d]", t.id)
	case *Project:
		return fmt.Sprintf("{%d}", t.id)
	case nil:
		return ""
	}
	return fmt.Sprintf("!%T!", t.obj)
}

func (t *Trace) Path() string {
	var sb strings.Builder
	sb.WriteByte('<')
	for ; t != nil; t = t.up {
		sb.WriteString(t.TopTag())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t *Trace) String() string {
	return fmt.Sprintf("%d@%s", t.Build(), t.Path())
}

func (t *Trace) pushProject(p *Project) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		obj:  p,
		id:   t.root.idSeq.Add(1),
	}
}

func (t *Trace) pushGoal(g *Goal) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		obj:  g,
		id:   t.root.idSeq.Add(1),
	}
}

type traceRoot struct {
	ctx     context.Context
	tr      Tracer
	prj     *Project
	session string
	idSeq   atomic.Uint64
}
