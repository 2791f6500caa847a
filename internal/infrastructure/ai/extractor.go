package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// maxUnwrapDepth caps recursive JSON unwrapping so adversarial or malformed
// model output cannot loop the extractor.
const maxUnwrapDepth = 3

// Extractor parses untrusted model output into a command candidate. The text
// may be a JSON object, markdown-wrapped JSON, doubly-nested JSON, or a bare
// string; all of these collapse into a single-line executable command.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

type commandEnvelope struct {
	Command     string `json:"command"`
	Explanation string `json:"explanation"`
}

// Extract implements ports.Extractor.
func (e *Extractor) Extract(raw string) (domain.GeneratedCommand, error) {
	command, explanation := parseEnvelope(strings.TrimSpace(raw))
	command = Sanitize(command)
	if command == "" {
		return domain.GeneratedCommand{}, domain.ErrEmptyCommand
	}
	return domain.GeneratedCommand{Command: command, Explanation: explanation}, nil
}

func parseEnvelope(text string) (string, string) {
	explanation := ""
	candidate := text

	for i := 0; i < maxUnwrapDepth; i++ {
		env, ok := decodeEnvelope(candidate)
		if !ok {
			break
		}
		if env.Explanation != "" {
			explanation = env.Explanation
		}
		candidate = strings.TrimSpace(env.Command)
	}

	if looksLikeEnvelope(candidate) {
		// Unwrap budget exhausted or invalid JSON; fall back to the regex path.
		if cmd, ok := extractQuoted(candidate); ok {
			return cmd, explanation
		}
	}
	if candidate == text {
		// Whole text was never valid JSON; try the substring match once.
		if cmd, ok := extractQuoted(text); ok {
			return cmd, explanation
		}
	}
	return candidate, explanation
}

func decodeEnvelope(text string) (commandEnvelope, bool) {
	trimmed := stripFences(text)
	if !strings.HasPrefix(strings.TrimSpace(trimmed), "{") {
		return commandEnvelope{}, false
	}
	var env commandEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return commandEnvelope{}, false
	}
	if strings.TrimSpace(env.Command) == "" {
		return commandEnvelope{}, false
	}
	return env, true
}

func looksLikeEnvelope(text string) bool {
	return strings.Contains(text, `"command"`)
}

var quotedCommandRe = regexp.MustCompile(`"command"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// extractQuoted pulls a "command": "..." substring out of text that is not
// valid JSON as a whole, unescaping the standard sequences.
func extractQuoted(text string) (string, bool) {
	match := quotedCommandRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return unescape(match[1]), true
}

func unescape(s string) string {
	replacer := strings.NewReplacer(
		`\n`, "\n",
		`\t`, "\t",
		`\"`, `"`,
		`\\`, `\`,
	)
	return replacer.Replace(s)
}

var (
	fenceRe        = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$")
	fenceLangRe    = regexp.MustCompile(`^[a-zA-Z]*\s*$`)
	promptMarkerRe = regexp.MustCompile(`(?m)^\s*[$#>]\s?`)
)

// Sanitize normalizes an extracted command into a single-line, directly
// executable string: no fences, no shell-prompt markers, no backticks, all
// whitespace collapsed. It is a no-op on already-clean commands.
func Sanitize(command string) string {
	command = fenceRe.ReplaceAllString(command, "")
	command = stripInlineFences(command)
	command = promptMarkerRe.ReplaceAllString(command, "")
	command = strings.ReplaceAll(command, "`", "")
	return strings.Join(strings.Fields(command), " ")
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		if fenceLangRe.MatchString(text[:idx]) {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func stripInlineFences(command string) string {
	return strings.ReplaceAll(command, "```", "")
}

var _ ports.Extractor = (*Extractor)(nil)
