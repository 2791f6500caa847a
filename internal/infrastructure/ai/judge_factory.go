package ai

import (
	"github.com/nlshell/nlsh/internal/ports"
)

// JudgeFactory builds verification judges bound to a chat provider, so the
// judge rides the same backend the query was generated on.
type JudgeFactory struct {
	Logger ports.Logger
}

func NewJudgeFactory(logger ports.Logger) *JudgeFactory {
	return &JudgeFactory{Logger: logger}
}

func (f *JudgeFactory) ForProvider(provider ports.ChatProvider) ports.Verifier {
	return NewJudge(provider, f.Logger)
}

var _ ports.VerifierFactory = (*JudgeFactory)(nil)
