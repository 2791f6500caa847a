package domain

// Neutral confidence values used when the judge's verdict is unusable.
// Absence of a signal must never be read as full confidence or as zero.
const (
	ConfidenceAmbiguous = 50
	ConfidenceFallback  = 60
)

// VerificationResult is the structured verdict returned by the judgment call
// for a command candidate.
type VerificationResult struct {
	Confidence         int
	IsCorrect          bool
	Issues             []string
	SuggestedQuestions []string
}

// ClampConfidence forces a confidence value into [0,100].
func ClampConfidence(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// NeutralVerification is the degraded verdict used when the judgment call
// fails entirely. The pipeline continues rather than blocking the user.
func NeutralVerification() VerificationResult {
	return VerificationResult{
		Confidence: ConfidenceFallback,
		IsCorrect:  true,
		Issues:     []string{"verification incomplete: judge response could not be parsed"},
	}
}

// InformationalCheck distinguishes a display-only reply disguised as a shell
// command from a real actionable command.
type InformationalCheck struct {
	IsInformational bool
	Message         string
}

// VerificationOutcome combines the judge verdict with the informational
// detector for one command candidate.
type VerificationOutcome struct {
	Passed             bool
	Result             VerificationResult
	NeedsClarification bool
	Informational      InformationalCheck
}
