package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/nlshell/nlsh/internal/domain"
)

func TestDetectSkipsNonEchoCommands(t *testing.T) {
	provider := &scriptedProvider{reply: `{"informational": true}`}
	d := NewDetector(provider)

	check := d.Detect(context.Background(), "rm -rf ./build", "who are you")
	if check.IsInformational {
		t.Fatal("non-echo command can never be informational")
	}
	if provider.calls != 0 {
		t.Fatalf("gate should avoid the model call, got %d calls", provider.calls)
	}
}

func TestDetectSemanticYes(t *testing.T) {
	provider := &scriptedProvider{reply: `{"informational": true, "message": "I turn natural language into shell commands."}`}
	d := NewDetector(provider)

	check := d.Detect(context.Background(), `echo "I turn natural language into shell commands."`, "who are you")
	if !check.IsInformational {
		t.Fatal("semantic verdict says informational")
	}
	if check.Message != "I turn natural language into shell commands." {
		t.Fatalf("message = %q", check.Message)
	}
}

func TestDetectSemanticNoOverridesHeuristic(t *testing.T) {
	// The judge says this echo is a real command; the heuristic would have
	// said otherwise, but the semantic answer is authoritative.
	provider := &scriptedProvider{reply: `{"informational": false}`}
	d := NewDetector(provider)

	check := d.Detect(context.Background(), `echo "hello"`, "how do I print hello")
	if check.IsInformational {
		t.Fatal("semantic no must win over the heuristic")
	}
}

func TestDetectSemanticYesWithoutMessageFallsBackToEchoArg(t *testing.T) {
	provider := &scriptedProvider{reply: `{"informational": true}`}
	d := NewDetector(provider)

	check := d.Detect(context.Background(), `echo "I am a command generator"`, "who are you")
	if !check.IsInformational {
		t.Fatal("expected informational")
	}
	if check.Message != "I am a command generator" {
		t.Fatalf("message = %q, want echoed literal", check.Message)
	}
}

func TestDetectHeuristicFallback(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("unavailable")}
	d := NewDetector(provider)

	tests := []struct {
		name    string
		command string
		query   string
		want    bool
	}{
		{
			name:    "conversational query with echoed reply",
			command: `echo "I am a shell assistant"`,
			query:   "who are you",
			want:    true,
		},
		{
			name:    "explicit echo request",
			command: `echo "hello world"`,
			query:   "print hello world to the terminal",
			want:    false,
		},
		{
			name:    "unquoted echo argument still counts",
			command: "echo $PATH",
			query:   "what is my path",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := d.Detect(context.Background(), tt.command, tt.query)
			if check.IsInformational != tt.want {
				t.Errorf("Detect(%q, %q) = %v, want %v", tt.command, tt.query, check.IsInformational, tt.want)
			}
		})
	}
}

func TestHeuristicRequiresBothSignals(t *testing.T) {
	var check domain.InformationalCheck

	check = heuristicCheck(`ls -la`, "who are you")
	if check.IsInformational {
		t.Fatal("no echoed literal, heuristic must decline")
	}

	check = heuristicCheck(`echo "I am nlsh"`, "delete old logs")
	if check.IsInformational {
		t.Fatal("non-conversational query, heuristic must decline")
	}

	check = heuristicCheck(`echo "I am nlsh"`, "who are you")
	if !check.IsInformational || check.Message != "I am nlsh" {
		t.Fatalf("both signals present, got %+v", check)
	}
}
