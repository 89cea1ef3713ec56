package kmlpkg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/kmlpkg/gomkore"
)

// CmdOp runs an external command. CWD is resolved against the project
// directory of the action.
type CmdOp struct {
	CWD             string
	Exe             string
	Args            []string
	InFile, OutFile string
	Desc            string

	// LinePrefix is written before each line the command writes to the
	// environment's output streams.
	LinePrefix string
}

var _ gomkore.Operation = (*CmdOp)(nil)

func (op *CmdOp) Describe(a *Action, _ *Env) string {
	if op.Desc != "" {
		return op.Desc
	}
	return fmt.Sprintf("%s$%s %s", filepath.Base(op.Exe), op.Exe, strings.Join(op.Args, " "))
}

func (op *CmdOp) Do(tr *Trace, a *Action, env *Env) error {
	xenv, err := env.ExecEnv()
	if err != nil {
		env.Log.Warn(err.Error(), slog.String("action", a.String()))
	}
	cmd := exec.CommandContext(tr.Ctx(), op.Exe, op.Args...)
	cmd.Dir = op.CWD
	if a != nil && cmd.Dir != "" {
		if cmd.Dir, err = a.Project().AbsPath(cmd.Dir); err != nil {
			return err
		}
	}
	if len(xenv) > 0 {
		cmd.Env = xenv
	}
	if op.InFile != "" {
		r, err := os.Open(op.InFile)
		if err != nil {
			return err
		}
		defer r.Close()
		cmd.Stdin = r
	} else {
		cmd.Stdin = env.In
	}
	if op.OutFile != "" {
		w, err := os.Create(op.OutFile)
		if err != nil {
			return err
		}
		defer w.Close()
		cmd.Stdout = w
	} else {
		cmd.Stdout = op.prefixed(env.Out)
	}
	cmd.Stderr = op.prefixed(env.Err)
	tr.Debug("exec `cmd` in `dir`", `cmd`, cmd.String(), `dir`, cmd.Dir)
	err = cmd.Run()
	if err != nil {
		env.Log.Error("failed `cmd` in `dir` with `error`",
			slog.String("cmd", cmd.String()),
			slog.String("dir", cmd.Dir),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w", filepath.Base(op.Exe), err)
	}
	return nil
}

func (op *CmdOp) prefixed(w io.Writer) io.Writer {
	if op.LinePrefix == "" || w == nil {
		return w
	}
	return newLinePrefixer(w, op.LinePrefix)
}
