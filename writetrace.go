package kmlpkg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

// WriteTracer writes the progress of builds as text lines to W. Messages are
// sllm templates.
type WriteTracer struct {
	W     io.Writer
	Level gomkore.TraceLevel
}

var _ gomkore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() *WriteTracer {
	return &WriteTracer{W: os.Stderr, Level: gomkore.TraceWarn}
}

// ParseLevel sets the trace level from a command line flag.
func (tr *WriteTracer) ParseLevel(f string) (err error) {
	tr.Level, err = gomkore.ParseTraceLevel(f)
	return err
}

func (tr *WriteTracer) Debug(t *gomkore.Trace, msg string, args ...any) {
	if tr.Level&gomkore.TraceDebug != 0 {
		tr.msg(t, "DEBUG", msg, args)
	}
}

func (tr *WriteTracer) Info(t *gomkore.Trace, msg string, args ...any) {
	if tr.Level&(gomkore.TraceInfo|gomkore.TraceDebug) != 0 {
		tr.msg(t, "INFO ", msg, args)
	}
}

func (tr *WriteTracer) Warn(t *gomkore.Trace, msg string, args ...any) {
	if tr.Level != 0 {
		tr.msg(t, "WARN ", msg, args)
	}
}

func (tr *WriteTracer) msg(t *gomkore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%d@%s\t  %s ", t.Build(), t.TopTag(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr *WriteTracer) StartProject(t *gomkore.Trace, p *gomkore.Project, activity string) {
	if tr.Level == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t{ %s project '%s' in %s\n",
		t.Build(),
		t.TopTag(),
		activity,
		p,
		p.Dir,
	)
}

func (tr *WriteTracer) DoneProject(t *gomkore.Trace, p *gomkore.Project, activity string, dt time.Duration) {
	if tr.Level == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t} %s project '%s' took %s\n",
		t.Build(),
		t.TopTag(),
		activity,
		p,
		dt.Round(time.Millisecond),
	)
}

func (tr *WriteTracer) logGoals() bool { return tr.Level&(gomkore.TraceInfo|gomkore.TraceDebug) != 0 }

func (tr *WriteTracer) logSchedule() bool { return tr.Level&gomkore.TraceDebug != 0 }

func (tr *WriteTracer) RunAction(t *gomkore.Trace, a *gomkore.Action) {
	if tr.Level != 0 {
		fmt.Fprintf(tr.W, "%d@%s\t  run (%s)\n", t.Build(), t.TopTag(), a)
	}
}

func (tr *WriteTracer) RunImplicitAction(t *gomkore.Trace, _ *gomkore.Action) {
	if tr.logSchedule() {
		fmt.Fprintf(tr.W, "%d@%s\t  implicit action\n", t.Build(), t.TopTag())
	}
}

func (tr *WriteTracer) ScheduleResTimeZero(t *gomkore.Trace, a *gomkore.Action, res *gomkore.Goal) {
	if !tr.logSchedule() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  schedule (%s) for %s without state time\n",
		t.Build(),
		t.TopTag(),
		a,
		res,
	)
}

func (tr *WriteTracer) ScheduleNotPremises(t *gomkore.Trace, a *gomkore.Action, res *gomkore.Goal) {
	if !tr.logSchedule() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  schedule (%s) without premise for %s\n",
		t.Build(),
		t.TopTag(),
		a,
		res,
	)
}

func (tr *WriteTracer) SchedulePreTimeZero(t *gomkore.Trace, a *gomkore.Action, res, pre *gomkore.Goal) {
	if !tr.logSchedule() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  schedule (%s) for %s, premise %s has no state time\n",
		t.Build(),
		t.TopTag(),
		a,
		res,
		pre,
	)
}

func (tr *WriteTracer) ScheduleOutdated(t *gomkore.Trace, a *gomkore.Action, res, pre *gomkore.Goal) {
	if !tr.logSchedule() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  schedule (%s) for %s, premise %s is newer\n",
		t.Build(),
		t.TopTag(),
		a,
		res,
		pre,
	)
}

func (tr *WriteTracer) CheckGoal(t *gomkore.Trace, g *gomkore.Goal) {
	if !tr.logSchedule() {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t? %s %s\n", t.Build(), t.TopTag(), g, t.Path())
}

func (tr *WriteTracer) GoalUpToDate(t *gomkore.Trace, g *gomkore.Goal) {
	if tr.logGoals() {
		fmt.Fprintf(tr.W, "%d@%s\t. %s is up-to-date\n", t.Build(), t.TopTag(), g)
	}
}

func (tr *WriteTracer) GoalNeedsActions(t *gomkore.Trace, g *gomkore.Goal, n int) {
	if tr.logGoals() {
		fmt.Fprintf(tr.W, "%d@%s\t! %s needs %d actions\n", t.Build(), t.TopTag(), g, n)
	}
}

func (tr *WriteTracer) RemoveArtefact(t *gomkore.Trace, g *gomkore.Goal) {
	if tr.Level != 0 {
		fmt.Fprintf(tr.W, "%d@%s\t- remove %s\n", t.Build(), t.TopTag(), g)
	}
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value.Any()), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
