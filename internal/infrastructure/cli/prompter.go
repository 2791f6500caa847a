package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/nlshell/nlsh/internal/ports"
)

// Prompter implements the interactive port on top of huh forms, degrading
// to plain stdio when huh cannot drive the terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// plain forces stdio prompts; set in tests and when stdin is piped.
	plain bool
}

// NewPrompter builds a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	plain := false
	if in == nil {
		in = os.Stdin
		plain = !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out, plain: plain}
}

// Enabled reports whether the prompter can actually ask anything. A piped
// stdin disables prompting entirely; the pipeline treats that as a decline.
func (p *Prompter) Enabled() bool {
	return !p.plain || isatty.IsTerminal(os.Stdin.Fd())
}

// Confirm asks a yes/no question. Aborting the form (ctrl+c, esc) counts
// as the default answer being rejected, never as approval.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	if p.plain {
		return p.confirmPlain(question, defaultYes)
	}

	answer := defaultYes
	form := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&answer).
		WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return p.confirmPlain(question, defaultYes)
	}
	return answer, nil
}

// Choose asks the user to pick one of options. Aborting returns the default.
func (p *Prompter) Choose(question string, options []string, defaultOption string) (string, error) {
	if p.plain {
		return p.choosePlain(question, options, defaultOption)
	}

	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		huhOptions = append(huhOptions, huh.NewOption(option, option))
	}
	choice := defaultOption
	form := huh.NewSelect[string]().
		Title(question).
		Options(huhOptions...).
		Value(&choice).
		WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return defaultOption, nil
		}
		return p.choosePlain(question, options, defaultOption)
	}
	return choice, nil
}

// Input asks for free text, prefilled with an editable value.
func (p *Prompter) Input(question string, prefill string) (string, error) {
	if p.plain {
		return p.inputPlain(question, prefill)
	}

	text := prefill
	form := huh.NewInput().
		Title(question).
		Value(&text).
		WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return p.inputPlain(question, prefill)
	}
	return text, nil
}

func (p *Prompter) confirmPlain(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s: ", question, hint)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return defaultYes, nil
	}
	return line == "y" || line == "yes", nil
}

func (p *Prompter) choosePlain(question string, options []string, defaultOption string) (string, error) {
	fmt.Fprintf(p.out, "%s (%s) [%s]: ", question, strings.Join(options, "/"), defaultOption)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return defaultOption, nil
	}
	for _, option := range options {
		if line == option || strings.HasPrefix(option, line) {
			return option, nil
		}
	}
	return defaultOption, nil
}

func (p *Prompter) inputPlain(question string, prefill string) (string, error) {
	if prefill != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, prefill)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return prefill, nil
	}
	return line, nil
}

var _ ports.Prompter = (*Prompter)(nil)
