package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Detector recognizes display-only replies disguised as shell commands.
// A model asked "who are you" will often answer with an echo of its reply;
// that must be shown as conversation, never offered for execution.
type Detector struct {
	Provider ports.ChatProvider
}

func NewDetector(provider ports.ChatProvider) *Detector {
	return &Detector{Provider: provider}
}

// displayGate is the cheap syntactic pre-check. Commands that are not
// echo/printf calls are obviously real operations and never cost a model call.
var displayGate = regexp.MustCompile(`^\s*(echo|printf)\s`)

// Detect classifies a command/query pair. The semantic judgment call is
// authoritative; when it fails the regex-plus-keyword heuristic decides.
func (d *Detector) Detect(ctx context.Context, command, query string) domain.InformationalCheck {
	if !displayGate.MatchString(command) {
		return domain.InformationalCheck{}
	}

	if check, ok := d.judge(ctx, command, query); ok {
		return check
	}
	return heuristicCheck(command, query)
}

type informationalVerdict struct {
	Informational bool   `json:"informational"`
	Message       string `json:"message"`
}

func (d *Detector) judge(ctx context.Context, command, query string) (domain.InformationalCheck, bool) {
	if d.Provider == nil {
		return domain.InformationalCheck{}, false
	}
	reply, err := d.Provider.Chat(ctx, informationalMessages(command, query))
	if err != nil {
		return domain.InformationalCheck{}, false
	}
	payload, ok := findJSONObject(reply)
	if !ok {
		return domain.InformationalCheck{}, false
	}
	var v informationalVerdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return domain.InformationalCheck{}, false
	}
	check := domain.InformationalCheck{IsInformational: v.Informational, Message: v.Message}
	if check.IsInformational && check.Message == "" {
		check.Message = quotedArgument(command)
	}
	return check, true
}

var (
	quotedArgRe      = regexp.MustCompile(`(?:echo|printf)\s+(?:-[a-zA-Z]+\s+)*["']?([^"']+)["']?\s*$`)
	conversationalRe = regexp.MustCompile(`(?i)^\s*(who|what|how|why|hello|hi|hey|help|thank|can you|tell me about)\b`)
)

// heuristicCheck is the degraded path: both the echoed literal and a
// conversational lead-in on the query must be present.
func heuristicCheck(command, query string) domain.InformationalCheck {
	message := quotedArgument(command)
	if message == "" {
		return domain.InformationalCheck{}
	}
	if !conversationalRe.MatchString(query) {
		return domain.InformationalCheck{}
	}
	return domain.InformationalCheck{IsInformational: true, Message: message}
}

func quotedArgument(command string) string {
	match := quotedArgRe.FindStringSubmatch(command)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
