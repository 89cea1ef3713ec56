package gomkore

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the environment operations run in. Tags are passed to external
// commands as environment variables.
type Env struct {
	In       io.Reader
	Out, Err io.Writer
	Log      *slog.Logger

	tags    map[string]string
	delt    map[string]bool
	xenv    []string
	xenvErr error
	parent  *Env
}

// DefaultEnv creates an Env from the process' standard streams and OS
// environment.
func DefaultEnv(tr *Trace) *Env {
	env := &Env{
		In:   os.Stdin,
		Out:  os.Stdout,
		Err:  os.Stderr,
		Log:  slog.Default(),
		tags: make(map[string]string),
	}
	for _, evar := range os.Environ() {
		k, v, _ := strings.Cut(evar, "=")
		if k == "" {
			if tr != nil {
				tr.Warn("ignoring default `env`", `env`, evar)
			}
			continue
		}
		env.tags[k] = v
	}
	return env
}

// Sub creates a child environment. Changes to the child do not affect e.
func (e *Env) Sub() *Env {
	return &Env{
		In: e.In, Out: e.Out, Err: e.Err,
		Log:    e.Log,
		parent: e,
	}
}

func (e *Env) Tag(key string) (string, bool) {
	for e != nil {
		if e.tags != nil {
			if v, ok := e.tags[key]; ok {
				return v, true
			}
		}
		if e.delt != nil && e.delt[key] {
			break
		}
		e = e.parent
	}
	return "", false
}

func (e *Env) SetTag(key, val string) {
	if e.tags == nil {
		e.tags = make(map[string]string)
	}
	e.tags[key] = val
	if e.delt != nil {
		delete(e.delt, key)
	}
	e.clearXEnv()
}

// SetTags sets tags from "key=value" strings. A string without '=' sets an
// empty value.
func (e *Env) SetTags(env ...string) {
	for _, evar := range env {
		k, v, _ := strings.Cut(evar, "=")
		e.SetTag(k, v)
	}
}

func (e *Env) DelTag(key string) {
	delete(e.tags, key)
	if e.parent != nil {
		if e.delt == nil {
			e.delt = make(map[string]bool)
		}
		e.delt[key] = true
	}
	e.clearXEnv()
}

type NonXEnvKeys []string

func (e NonXEnvKeys) Error() string {
	return fmt.Sprintf("illegal exec env keys: %s", strings.Join(e, ", "))
}

// ExecEnv returns the tags as sorted "key=value" strings for [exec.Cmd]. Keys
// that cannot be passed to a process are reported as [NonXEnvKeys] error,
// the returned env is still usable.
func (e *Env) ExecEnv() ([]string, error) {
	if e.xenv == nil {
		var errKeys []string
		tags := e.mergedTags()
		for _, k := range slices.Sorted(maps.Keys(tags)) {
			switch {
			case k == "":
				errKeys = append(errKeys, `""`)
			case strings.ContainsRune(k, '='):
				errKeys = append(errKeys, k)
			default:
				e.xenv = append(e.xenv, k+"="+tags[k])
			}
		}
		if len(errKeys) > 0 {
			e.xenvErr = NonXEnvKeys(errKeys)
		}
	}
	return e.xenv, e.xenvErr
}

func (e *Env) clearXEnv() {
	e.xenv = nil
	e.xenvErr = nil
}

func (e *Env) mergedTags() map[string]string {
	if e.parent == nil {
		if e.tags == nil {
			return make(map[string]string)
		}
		return maps.Clone(e.tags)
	}
	mts := e.parent.mergedTags()
	for k := range e.delt {
		delete(mts, k)
	}
	maps.Copy(mts, e.tags)
	return mts
}
