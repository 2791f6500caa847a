package domain

// SeverityLevel enumerates command risk classifications.
type SeverityLevel string

const (
	SeveritySafe     SeverityLevel = "safe"
	SeverityLow      SeverityLevel = "low"
	SeverityMedium   SeverityLevel = "medium"
	SeverityHigh     SeverityLevel = "high"
	SeverityCritical SeverityLevel = "critical"
)

var severityOrder = map[SeverityLevel]int{
	SeveritySafe:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// MoreSevere reports whether next outranks current.
func MoreSevere(next, current SeverityLevel) bool {
	return severityOrder[next] > severityOrder[current]
}

// RequiresConfirmation reports whether a level demands an explicit yes
// before execution. Only high and critical do; everything below gets the
// lighter default-accept flow.
func RequiresConfirmation(level SeverityLevel) bool {
	return level == SeverityHigh || level == SeverityCritical
}

// SeverityCheck aggregates the guardrail evaluation of a single command.
// Level is the maximum severity across all matched rules, Reason belongs to
// the first rule that carries that level, and Warnings collects every matched
// rule's message in first-seen order without duplicates.
type SeverityCheck struct {
	Level    SeverityLevel
	Reason   string
	Warnings []string
}
