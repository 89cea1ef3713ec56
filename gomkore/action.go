package gomkore

// An Action is something you can do in your [Project] to achieve at least one
// [Goal]. The actual implementation of the action is an [Operation]. An action
// without an operation is an "implicit" action, i.e. if all its premises are
// reached, all results of the action are implicitly reached too.
type Action struct {
	Op Operation

	// IgnoreError lets the build continue when Op fails. The error is only
	// reported as a warning.
	IgnoreError bool

	prj       *Project
	premises  []*Goal
	results   []*Goal
	lastBuild BuildID
}

func (a *Action) Project() *Project { return a.prj }

func (a *Action) Premises() []*Goal { return a.premises }

func (a *Action) Results() []*Goal { return a.results }

// Run runs a's operation once per build. When a already ran in the current
// build Run does nothing. It returns the ID of the build that ran a before
// this call.
func (a *Action) Run(tr *Trace, env *Env) (BuildID, error) {
	bid := a.prj.lastBuild
	last := a.lastBuild
	if last >= bid {
		return last, nil
	}
	a.lastBuild = bid
	if a.Op == nil {
		tr.runImplicitAction(a)
		return last, nil
	}
	tr.runAction(a)
	if env == nil {
		env = DefaultEnv(tr)
	}
	if err := a.Op.Do(tr, a, env); err != nil {
		if a.IgnoreError {
			tr.Warn("ignore `error` of `action`", `error`, err, `action`, a.String())
			return last, nil
		}
		return last, err
	}
	return last, nil
}

func (a *Action) String() string {
	switch {
	case a == nil:
		return "<nil:Action>"
	case a.Op == nil:
		return "implicit:" + a.prj.String()
	}
	return a.Op.Describe(a, nil)
}

// Operation implements what an [Action] does.
type Operation interface {
	// The hints are optional
	Describe(actionHint *Action, envHint *Env) string
	Do(tr *Trace, a *Action, env *Env) error
}
