package gomkore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
)

type BuildID = uint64

// Project is the graph of goals and actions rooted in directory Dir. Relative
// artefact paths are resolved against Dir.
type Project struct {
	Dir string

	sync.Mutex

	goals     map[string]*Goal
	order     []*Goal
	actions   []*Action
	lastBuild BuildID
}

func NewProject(dir string) *Project {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Project{
		Dir:   dir,
		goals: make(map[string]*Goal),
	}
}

// Goal returns the goal for artefact atf. A new goal is created if prj has no
// goal with atf's name yet.
func (prj *Project) Goal(atf Artefact) (*Goal, error) {
	if atf == nil {
		atf = Abstract(fmt.Sprintf("artefact-%d", len(prj.order)))
	}
	name := atf.Name(prj)
	if name == "" {
		return nil, fmt.Errorf("artefact %T without name in project %s", atf, prj)
	}
	if g := prj.goals[name]; g != nil {
		if reflect.TypeOf(g.Artefact) != reflect.TypeOf(atf) {
			return nil, fmt.Errorf("goal '%s' already has artefact type %T, not %T",
				name,
				g.Artefact,
				atf,
			)
		}
		return g, nil
	}
	g := &Goal{
		Artefact: atf,
		prj:      prj,
		idx:      uint(len(prj.order)),
	}
	prj.goals[name] = g
	prj.order = append(prj.order, g)
	return g, nil
}

// Goals appends all goals of prj in the order of their creation to addTo.
func (prj *Project) Goals(addTo []*Goal) []*Goal {
	return append(addTo, prj.order...)
}

func (prj *Project) FindGoal(name string) *Goal { return prj.goals[name] }

func (prj *Project) Name(*Project) string { return prj.String() }

func (prj *Project) String() string {
	tmp := prj.Dir
	if tmp == "" || tmp == "." {
		tmp, _ = filepath.Abs(tmp)
	}
	return filepath.Base(tmp)
}

// Build returns the ID of the current or last build of prj.
func (prj *Project) Build() BuildID { return prj.lastBuild }

// RelPath returns p relative to prj.Dir.
func (prj *Project) RelPath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := filepath.Abs(prj.Dir)
	if err != nil {
		return "", err
	}
	return filepath.Rel(dir, p)
}

// AbsPath resolves p against prj.Dir.
func (prj *Project) AbsPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Abs(filepath.Join(prj.Dir, p))
}

// Leafs returns all goals that are not premise of any action, i.e. the final
// goals of the project.
func (prj *Project) Leafs() (ls []*Goal) {
	for _, g := range prj.order {
		if len(g.premiseOf) == 0 {
			ls = append(ls, g)
		}
	}
	return ls
}

// Roots returns all goals that are not the result of any action.
func (prj *Project) Roots() (rs []*Goal) {
	for _, g := range prj.order {
		if len(g.resultOf) == 0 {
			rs = append(rs, g)
		}
	}
	return rs
}

// NewAction creates a new [Action] in project prj. There must be at least one
// result. All premises and results must belong to prj.
func (prj *Project) NewAction(premises, results []*Goal, op Operation) (*Action, error) {
	if len(results) == 0 {
		desc := "implicit"
		if op != nil {
			desc = op.Describe(nil, nil)
		}
		return nil, fmt.Errorf("creating action %s without result", desc)
	}
	if err := prj.consistentPrj(premises, results); err != nil {
		return nil, err
	}
	a := &Action{
		Op:       op,
		prj:      prj,
		premises: premises,
		results:  results,
	}
	for _, p := range premises {
		p.premiseOf = append(p.premiseOf, a)
	}
	for _, r := range results {
		r.resultOf = append(r.resultOf, a)
	}
	prj.actions = append(prj.actions, a)
	return a, nil
}

// LockBuild locks prj and starts a new build.
func (prj *Project) LockBuild() BuildID {
	prj.Lock()
	prj.lastBuild++
	return prj.lastBuild
}

func escDotID(id string) string {
	return strings.ReplaceAll(id, "\"", "\\\"")
}

// WriteDot writes the graph of prj in Graphviz dot format to w.
func (prj *Project) WriteDot(w io.Writer, rankDir string) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			default:
				panic(p)
			}
		}
	}()
	akku := func(p int, err error) {
		n += p
		if err != nil {
			panic(err)
		}
	}
	akku(fmt.Fprintf(w, "digraph \"%s\" {\n", escDotID(prj.String())))
	if rankDir != "" {
		akku(fmt.Fprintf(w, "\trankdir=\"%s\"\n", escDotID(rankDir)))
	}
	for i, g := range prj.order {
		var style string
		switch {
		case g.IsAbstract():
			style = ",style=dashed"
		case len(g.resultOf) == 0 || len(g.premiseOf) == 0:
			style = ",style=bold"
		}
		akku(fmt.Fprintf(w, "\tg%d [shape=box%s,label=\"%s\"];\n",
			i,
			style,
			escDotID(g.Name()),
		))
	}
	for i, a := range prj.actions {
		label := "implicit"
		if a.Op != nil {
			label = a.String()
		}
		akku(fmt.Fprintf(w, "\ta%d [shape=ellipse,label=\"%s\"];\n", i, escDotID(label)))
		for _, p := range a.premises {
			akku(fmt.Fprintf(w, "\tg%d -> a%d;\n", p.idx, i))
		}
		for _, r := range a.results {
			akku(fmt.Fprintf(w, "\ta%d -> g%d;\n", i, r.idx))
		}
	}
	akku(fmt.Fprintln(w, "}"))
	return
}

func (prj *Project) consistentPrj(premises, results []*Goal) error {
	for _, g := range premises {
		if p := g.Project(); p != prj {
			return fmt.Errorf("premise '%s' not in project '%s'",
				g.Name(),
				prj.String(),
			)
		}
	}
	for _, g := range results {
		if p := g.Project(); p != prj {
			return fmt.Errorf("result '%s' not in project '%s'",
				g.Name(),
				prj.String(),
			)
		}
	}
	return nil
}
