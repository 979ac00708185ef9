// Package ui handles all user-facing terminal output and input: styled
// messages, sequential prompts, and the interactive project picker.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/reflow/wordwrap"
)

// summaryWrapWidth bounds the description column in the confirmation
// summary so long bodies stay readable.
const summaryWrapWidth = 72

// Printer writes styled status messages. Normal output goes to Out,
// failures to Err, matching the usual stdout/stderr split.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a Printer bound to stdout and stderr.
func NewPrinter() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// Success prints a green checkmarked message.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Fail prints a red cross-marked message to stderr.
func (p *Printer) Fail(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warn prints an orange warning, used for partial failures such as a
// created-but-unlinked issue.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, WarnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Notice prints a dimmed informational message.
func (p *Printer) Notice(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, NoticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Summary renders the pre-confirmation view of what is about to be
// created: repository, title, description and the target board.
func (p *Printer) Summary(repo, title, description, project string) {
	fmt.Fprintln(p.Out, TitleStyle.Render("New issue"))
	fmt.Fprintf(p.Out, "%s %s\n", LabelStyle.Render("Repository: "), repo)
	fmt.Fprintf(p.Out, "%s %s\n", LabelStyle.Render("Title:      "), title)

	desc := description
	if desc == "" {
		desc = NoticeStyle.Render("(empty)")
	} else {
		desc = wordwrap.String(desc, summaryWrapWidth)
	}
	fmt.Fprintf(p.Out, "%s %s\n", LabelStyle.Render("Description:"), desc)

	if project == "" {
		project = NoticeStyle.Render("none")
	}
	fmt.Fprintf(p.Out, "%s %s\n", LabelStyle.Render("Project:    "), project)
}
