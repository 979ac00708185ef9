package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/robby/loose-end/internal/domain"
)

// Prompter collects input from the user. The controller depends on this
// interface so tests can script answers.
type Prompter interface {
	// Input reads one line of text; the result is trimmed.
	Input(label string) (string, error)
	// Confirm asks a yes/no question. Empty input picks def.
	Confirm(label string, def bool) (bool, error)
	// Secret reads one line without echoing it.
	Secret(label string) (string, error)
	// PickProject presents the boards as a 1-based menu in the given
	// order plus a skip option. A nil result with nil error means skip.
	PickProject(projects []domain.ProjectSummary) (*domain.ProjectSummary, error)
}

// TerminalPrompter implements Prompter against a terminal.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter returns a Prompter bound to stdin/stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// Input reads a single trimmed line.
func (p *TerminalPrompter) Input(label string) (string, error) {
	fmt.Fprint(p.out, PromptStyle.Render(label+": "))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question, defaulting on empty input.
func (p *TerminalPrompter) Confirm(label string, def bool) (bool, error) {
	hint := "[Y/n]"
	if !def {
		hint = "[y/N]"
	}
	answer, err := p.Input(fmt.Sprintf("%s %s", label, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Secret reads without echo. Falls back to a plain read when stdin is
// not a terminal (e.g. piped input in tests).
func (p *TerminalPrompter) Secret(label string) (string, error) {
	fmt.Fprint(p.out, PromptStyle.Render(label+": "))
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PickProject runs the interactive board picker.
func (p *TerminalPrompter) PickProject(projects []domain.ProjectSummary) (*domain.ProjectSummary, error) {
	return runPicker(projects)
}
