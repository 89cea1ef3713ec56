// Package patch applies unified diffs to a source tree the way conan's
// apply_conandata_patches does for a recipe's patches.
package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

var ErrStrip = errors.New("cannot strip path components")

// ConflictError reports a hunk that does not match the file it shall be
// applied to.
type ConflictError struct {
	File string
	Hunk int
	Line int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("hunk #%d does not apply to %s at line %d", e.Hunk+1, e.File, e.Line)
}

// Parse parses a multi-file unified diff.
func Parse(data []byte) ([]*diff.FileDiff, error) {
	fds, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	return fds, nil
}

// File reads and applies the patch file to the tree below root.
func File(root, patchFile string, strip int) error {
	data, err := os.ReadFile(patchFile)
	if err != nil {
		return err
	}
	fds, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", patchFile, err)
	}
	if err := Apply(root, strip, fds); err != nil {
		return fmt.Errorf("%s: %w", patchFile, err)
	}
	return nil
}

// Apply applies fds to the tree below root. Like patch -p<strip>, strip leading
// path components are removed from the file names in the diff. A file whose
// original name is /dev/null is created, one whose new name is /dev/null is
// deleted.
func Apply(root string, strip int, fds []*diff.FileDiff) error {
	for _, fd := range fds {
		if err := applyFile(root, strip, fd); err != nil {
			return err
		}
	}
	return nil
}

// Target returns the project relative path a file diff applies to.
func Target(fd *diff.FileDiff, strip int) (string, error) {
	name := fd.NewName
	if name == devNull || name == "" {
		name = fd.OrigName
	}
	return stripPath(name, strip)
}

func applyFile(root string, strip int, fd *diff.FileDiff) error {
	rel, err := Target(fd, strip)
	if err != nil {
		return err
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	if r, err := filepath.Rel(root, path); err != nil || r == ".." ||
		strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return fmt.Errorf("patch target %s outside of %s", rel, root)
	}
	if fd.NewName == devNull {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	var txt text
	if fd.OrigName != devNull {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		txt = splitText(string(data))
	}
	offset := 0
	for i, h := range fd.Hunks {
		if offset, err = txt.apply(h, offset); err != nil {
			var cerr *ConflictError
			if errors.As(err, &cerr) {
				cerr.File, cerr.Hunk = rel, i
			}
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	mode := os.FileMode(0666)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	return os.WriteFile(path, []byte(txt.String()), mode)
}

func stripPath(name string, strip int) (string, error) {
	name = filepath.ToSlash(name)
	for i := 0; i < strip; i++ {
		_, rest, ok := strings.Cut(name, "/")
		if !ok {
			return "", fmt.Errorf("%w: %d from '%s'", ErrStrip, strip, name)
		}
		name = strings.TrimLeft(rest, "/")
	}
	if name == "" {
		return "", fmt.Errorf("%w: %d leaves empty name", ErrStrip, strip)
	}
	return name, nil
}

type text struct {
	lines []string
	// noEOL is set when the last line has no newline
	noEOL bool
}

func splitText(s string) (t text) {
	if s == "" {
		return t
	}
	t.noEOL = !strings.HasSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\n")
	t.lines = strings.Split(s, "\n")
	return t
}

func (t text) String() string {
	if len(t.lines) == 0 {
		return ""
	}
	s := strings.Join(t.lines, "\n")
	if !t.noEOL {
		s += "\n"
	}
	return s
}

// apply applies hunk h. The offset is the shift between the line numbers
// of the hunk and the current text caused by previous hunks.
func (t *text) apply(h *diff.Hunk, offset int) (int, error) {
	body := string(h.Body)
	newNoEOL := len(body) > 0 && !strings.HasSuffix(body, "\n")
	body = strings.TrimSuffix(body, "\n")
	var old, repl []string
	if body != "" {
		for _, ln := range strings.Split(body, "\n") {
			if ln == "" {
				old, repl = append(old, ""), append(repl, "")
				continue
			}
			switch ln[0] {
			case ' ':
				old, repl = append(old, ln[1:]), append(repl, ln[1:])
			case '-':
				old = append(old, ln[1:])
			case '+':
				repl = append(repl, ln[1:])
			}
		}
	}
	start := int(h.OrigStartLine) - 1
	if h.OrigLines == 0 {
		start = int(h.OrigStartLine)
	}
	at := t.find(old, start+offset)
	if at < 0 {
		return offset, &ConflictError{Line: int(h.OrigStartLine)}
	}
	tail := t.lines[at+len(old):]
	lines := make([]string, 0, len(t.lines)-len(old)+len(repl))
	lines = append(lines, t.lines[:at]...)
	lines = append(lines, repl...)
	lines = append(lines, tail...)
	if len(tail) == 0 {
		t.noEOL = newNoEOL
	}
	t.lines = lines
	return at - start + len(repl) - len(old), nil
}

// find searches the position of old nearest to expect.
func (t *text) find(old []string, expect int) int {
	if expect < 0 {
		expect = 0
	}
	maxAt := len(t.lines) - len(old)
	if maxAt < 0 {
		return -1
	}
	if expect > maxAt {
		expect = maxAt
	}
	for d := 0; d <= maxAt; d++ {
		if at := expect - d; at >= 0 && t.matches(old, at) {
			return at
		}
		if at := expect + d; d > 0 && at <= maxAt && t.matches(old, at) {
			return at
		}
		if expect-d < 0 && expect+d > maxAt {
			break
		}
	}
	return -1
}

func (t *text) matches(old []string, at int) bool {
	for i, ln := range old {
		if t.lines[at+i] != ln {
			return false
		}
	}
	return true
}
