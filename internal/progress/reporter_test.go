package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*LogReporter); !ok {
		t.Error("expected LogReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*BarReporter); !ok {
		t.Error("expected BarReporter outside CI")
	}
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LogReporter{Out: &buf}
	r.Start(2, "Importing ada/pixuli")
	r.Update(1, "src/")
	r.Update(2, "src/main.rs")
	r.Finish("")

	want := "Importing ada/pixuli (2 steps)\n[1/2] src/\n[2/2] src/main.rs\ndone\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLogReporterUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	r := &LogReporter{Out: &buf}
	r.Start(-1, "Walking contents")
	r.Update(3, "docs/")
	if !strings.Contains(buf.String(), "[3] docs/") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestBarReporterWritesSummary(t *testing.T) {
	var buf bytes.Buffer
	r := &BarReporter{Out: &buf}
	r.Start(3, "Fetching")
	r.Update(3, "last")
	r.Finish("3 files")
	if !strings.Contains(buf.String(), "3 files") {
		t.Errorf("output = %q", buf.String())
	}
}
