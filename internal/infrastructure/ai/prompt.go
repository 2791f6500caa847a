package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/nlshell/nlsh/internal/domain"
)

// Prompt construction for the three model calls the pipeline makes:
// generation, verification and the informational judgment.

type templateData struct {
	Query          string
	Command        string
	WorkingDir     string
	Shell          string
	OS             string
	User           string
	AvailableTools string
	GitStatus      string
	History        string
}

func buildTemplateData(query, command string, ctx domain.ContextSnapshot) templateData {
	return templateData{
		Query:          strings.TrimSpace(query),
		Command:        command,
		WorkingDir:     ctx.WorkingDir,
		Shell:          ctx.Shell,
		OS:             ctx.OS,
		User:           ctx.User,
		AvailableTools: toolsSummary(ctx.AvailableTools),
		GitStatus:      gitSummary(ctx.Git),
		History:        ctx.HistorySummary,
	}
}

func toolsSummary(tools []domain.ToolInfo) string {
	if len(tools) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tools))
	for _, tool := range tools {
		if tool.Category != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", tool.Name, tool.Category))
			continue
		}
		parts = append(parts, tool.Name)
	}
	return strings.Join(parts, ", ")
}

func gitSummary(status *domain.GitStatus) string {
	if status == nil {
		return ""
	}
	return fmt.Sprintf("branch %s, modified %d, untracked %d", status.Branch, status.ModifiedCount, status.UntrackedCount)
}

const generationSystemTemplate = `You are nlsh, a cautious shell assistant.
Translate the user's request into exactly one shell command.
Respond with a JSON object: {"command": "...", "explanation": "..."}.
Current environment:
- Directory: {{.WorkingDir}}
- Shell: {{.Shell}}
- OS: {{.OS}}
{{- if .AvailableTools}}
- Available tools: {{.AvailableTools}}{{end}}
{{- if .GitStatus}}
- Git: {{.GitStatus}}{{end}}
{{- if .History}}
Recent interactions:
{{.History}}{{end}}`

const verificationSystemTemplate = `You review shell commands for correctness before they run.
The environment is {{.OS}} with shell {{.Shell}}, working directory {{.WorkingDir}}.
Given a user request and a candidate command, respond with a JSON object:
{"confidence": <0-100>, "is_correct": <bool>, "issues": ["..."], "suggested_questions": ["..."]}.
confidence is how likely the command does what the user asked.
issues lists concrete problems; suggested_questions lists clarifying questions
to ask the user when the request is underspecified. Both may be empty.`

const informationalSystemPrompt = `You decide whether an echo/printf command is a conversational
reply dressed up as a shell command, or a real request to print something.
Answer with a JSON object: {"informational": <bool>, "message": "..."}.
Examples:
- query "who are you", command 'echo "I am a shell assistant"' -> {"informational": true, "message": "I am a shell assistant"}
- query "echo hello world", command 'echo hello world' -> {"informational": false, "message": ""}
- query "print the current PATH", command 'echo $PATH' -> {"informational": false, "message": ""}`

// GenerationMessages renders the chat messages for command generation.
func GenerationMessages(query string, ctx domain.ContextSnapshot) ([]domain.ChatMessage, error) {
	data := buildTemplateData(query, "", ctx)
	system, err := executeTemplate(generationSystemTemplate, data)
	if err != nil {
		return nil, err
	}
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: data.Query},
	}, nil
}

func verificationMessages(command, query string, ctx domain.ContextSnapshot) ([]domain.ChatMessage, error) {
	data := buildTemplateData(query, command, ctx)
	system, err := executeTemplate(verificationSystemTemplate, data)
	if err != nil {
		return nil, err
	}
	user := fmt.Sprintf("Request: %s\nCommand: %s", data.Query, command)
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: user},
	}, nil
}

func informationalMessages(command, query string) []domain.ChatMessage {
	user := fmt.Sprintf("Query: %q\nCommand: %q", query, command)
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: informationalSystemPrompt},
		{Role: domain.RoleUser, Content: user},
	}
}

func executeTemplate(raw string, data templateData) (string, error) {
	tmpl, err := template.New("prompt").Parse(raw)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
