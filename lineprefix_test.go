package kmlpkg

import (
	"io"
	"os"
	"strings"
	"testing"
)

func Example_linePrefixer() {
	lp := newLinePrefixer(os.Stdout, "cmake| ")
	io.WriteString(lp, "-- The CXX compiler")
	io.WriteString(lp, " is GNU\n")
	io.WriteString(lp, "-- Configuring done\n-- Generating")
	// Output:
	// cmake| -- The CXX compiler is GNU
	// cmake| -- Configuring done
	// cmake| -- Generating
}

func TestLinePrefixer_count(t *testing.T) {
	var sb strings.Builder
	lp := newLinePrefixer(&sb, "> ")
	in := "a\n\nb\n"
	n, err := io.WriteString(lp, in)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(in) {
		t.Errorf("wrote %d of %d bytes", n, len(in))
	}
	if s := sb.String(); s != "> a\n> \n> b\n" {
		t.Errorf("prefixed '%s'", s)
	}
}
