package domain

// ContextSnapshot holds environment data injected into prompts.
type ContextSnapshot struct {
	WorkingDir     string
	Shell          string
	OS             string
	User           string
	AvailableTools []ToolInfo
	Git            *GitStatus
	HistorySummary string
}

// ToolInfo describes one discovered executable, advisory context only.
type ToolInfo struct {
	Name     string
	Category string
}

// GitStatus captures contextual Git data.
type GitStatus struct {
	Branch         string
	ModifiedCount  int
	UntrackedCount int
}
