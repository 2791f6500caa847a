package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

var (
	commandStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	explanationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("248"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("87"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	dangerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109"))
)

// Renderer implements the Presenter port on the terminal.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// ShowCommand prints the generated command, its explanation, the confidence
// score and the severity verdict before any confirmation happens.
func (r *Renderer) ShowCommand(gen domain.GeneratedCommand, verification domain.VerificationOutcome, severity domain.SeverityCheck) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, commandStyle.Render(gen.Command))
	if gen.Explanation != "" {
		fmt.Fprintln(r.out, explanationStyle.Render(gen.Explanation))
	}

	fmt.Fprintln(r.out, subtleStyle.Render(fmt.Sprintf("confidence: %d%%", verification.Result.Confidence)))

	switch {
	case severity.Level == domain.SeveritySafe:
	case domain.RequiresConfirmation(severity.Level):
		fmt.Fprintln(r.out, dangerStyle.Render(fmt.Sprintf("%s: %s", strings.ToUpper(string(severity.Level)), severity.Reason)))
	default:
		fmt.Fprintln(r.out, warnStyle.Render(fmt.Sprintf("%s: %s", strings.ToUpper(string(severity.Level)), severity.Reason)))
	}
	for _, warning := range severity.Warnings {
		if warning == severity.Reason {
			continue
		}
		fmt.Fprintln(r.out, subtleStyle.Render(" - "+warning))
	}
}

// ShowInformational prints a conversational reply instead of a command.
func (r *Renderer) ShowInformational(message string, questions []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, infoStyle.Render(message))
	for _, q := range questions {
		fmt.Fprintln(r.out, subtleStyle.Render(" * "+q))
	}
}

// ShowClarification lists what the judge found unclear.
func (r *Renderer) ShowClarification(issues []string, questions []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, warnStyle.Render("The generated command may not match your request:"))
	for _, issue := range issues {
		fmt.Fprintln(r.out, " - "+issue)
	}
	if len(questions) > 0 {
		fmt.Fprintln(r.out, subtleStyle.Render("It might help to clarify:"))
		for _, q := range questions {
			fmt.Fprintln(r.out, subtleStyle.Render(" * "+q))
		}
	}
}

func (r *Renderer) ShowExitWarning(exitCode int) {
	fmt.Fprintln(r.out, warnStyle.Render(fmt.Sprintf("command exited with code %d", exitCode)))
}

func (r *Renderer) ShowUpdateNotice(latest string) {
	fmt.Fprintln(r.out, subtleStyle.Render(fmt.Sprintf("A newer version (%s) is available: https://github.com/nlshell/nlsh/releases", latest)))
}

var _ ports.Presenter = (*Renderer)(nil)
