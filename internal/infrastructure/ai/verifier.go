package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Judge asks the chat provider for a structured correctness verdict and runs
// the informational detector on the same candidate. A failed or unparseable
// judgment degrades to a neutral verdict; it never blocks command display.
type Judge struct {
	Provider ports.ChatProvider
	Detector *Detector
	Logger   ports.Logger
}

func NewJudge(provider ports.ChatProvider, logger ports.Logger) *Judge {
	return &Judge{
		Provider: provider,
		Detector: NewDetector(provider),
		Logger:   logger,
	}
}

// verdict mirrors the JSON the judge prompt asks for. Pointer fields
// distinguish "absent" from zero values.
type verdict struct {
	Confidence         *int     `json:"confidence"`
	IsCorrect          *bool    `json:"is_correct"`
	Issues             []string `json:"issues"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// Verify implements ports.Verifier.
func (j *Judge) Verify(ctx context.Context, command, query string, snapshot domain.ContextSnapshot, threshold int) domain.VerificationOutcome {
	result := j.judge(ctx, command, query, snapshot)

	outcome := domain.VerificationOutcome{Result: result}
	outcome.Passed = result.Confidence >= domain.ClampConfidence(threshold) && result.IsCorrect
	outcome.NeedsClarification = !outcome.Passed && len(result.SuggestedQuestions) > 0
	outcome.Informational = j.Detector.Detect(ctx, command, query)
	return outcome
}

func (j *Judge) judge(ctx context.Context, command, query string, snapshot domain.ContextSnapshot) domain.VerificationResult {
	messages, err := verificationMessages(command, query, snapshot)
	if err != nil {
		return domain.NeutralVerification()
	}

	reply, err := j.Provider.Chat(ctx, messages)
	if err != nil {
		j.Logger.Warn("verification call failed", map[string]interface{}{"error": err.Error()})
		return domain.NeutralVerification()
	}

	return parseVerdict(reply)
}

// parseVerdict decodes the judge reply. A reply with no JSON object at all
// degrades to the neutral fallback; a JSON object with missing or unusable
// fields gets the ambiguous confidence default instead.
func parseVerdict(reply string) domain.VerificationResult {
	payload, ok := findJSONObject(reply)
	if !ok {
		return domain.NeutralVerification()
	}

	var v verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return domain.NeutralVerification()
	}

	result := domain.VerificationResult{
		Confidence:         domain.ConfidenceAmbiguous,
		IsCorrect:          true,
		Issues:             v.Issues,
		SuggestedQuestions: v.SuggestedQuestions,
	}
	if v.Confidence != nil {
		result.Confidence = domain.ClampConfidence(*v.Confidence)
	}
	if v.IsCorrect != nil {
		result.IsCorrect = *v.IsCorrect
	}
	return result
}

// findJSONObject extracts the first balanced {...} block from free text.
// Judges occasionally wrap their verdict in prose or code fences.
func findJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var _ ports.Verifier = (*Judge)(nil)
