package kmlpkg

import (
	"bytes"
	"io"
)

// linePrefixer writes a prefix before each line written to w. Lines are not
// buffered, so partial lines of different writers may interleave.
type linePrefixer struct {
	w      io.Writer
	prefix []byte
	inLine bool
}

func newLinePrefixer(w io.Writer, prefix string) *linePrefixer {
	return &linePrefixer{w: w, prefix: []byte(prefix)}
}

func (lp *linePrefixer) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		if !lp.inLine {
			if _, err := lp.w.Write(lp.prefix); err != nil {
				return n, err
			}
			lp.inLine = true
		}
		end := bytes.IndexByte(p, '\n') + 1
		if end == 0 {
			end = len(p)
		} else {
			lp.inLine = false
		}
		m, err := lp.w.Write(p[:end])
		n += m
		if err != nil {
			return n, err
		}
		p = p[end:]
	}
	return n, nil
}
