// Package progress reports long-running CLI work, such as importing a
// repository tree, either as a terminal bar or as plain log lines.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates. A total of -1 means the amount of
// work is not known up front.
type Reporter interface {
	Start(total int, description string)
	Update(current int, message string)
	Finish(summary string)
}

// NewReporter returns a LogReporter when CI or GITHUB_ACTIONS is set and a
// BarReporter otherwise. Both write to stderr.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LogReporter{Out: os.Stderr}
	}
	return &BarReporter{Out: os.Stderr}
}

// BarReporter draws a progress bar, or a spinner when the total is unknown.
type BarReporter struct {
	Out io.Writer
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Start(total int, description string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *BarReporter) Finish(summary string) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	if summary != "" {
		fmt.Fprintln(r.Out, summary)
	}
}

// LogReporter prints one line per update, for CI logs.
type LogReporter struct {
	Out   io.Writer
	total int
}

func (r *LogReporter) Start(total int, description string) {
	r.total = total
	if total < 0 {
		fmt.Fprintf(r.Out, "%s\n", description)
		return
	}
	fmt.Fprintf(r.Out, "%s (%d steps)\n", description, total)
}

func (r *LogReporter) Update(current int, message string) {
	if r.total < 0 {
		fmt.Fprintf(r.Out, "[%d] %s\n", current, message)
		return
	}
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, message)
}

func (r *LogReporter) Finish(summary string) {
	if summary == "" {
		summary = "done"
	}
	fmt.Fprintln(r.Out, summary)
}

// Nop discards progress. Library code uses it when no reporter is given.
type Nop struct{}

func (Nop) Start(int, string)  {}
func (Nop) Update(int, string) {}
func (Nop) Finish(string)      {}
