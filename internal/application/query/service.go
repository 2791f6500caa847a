// Package query implements the confirmation-gated pipeline that turns a
// natural-language request into an executed (or deliberately not executed)
// shell command.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// maxClarificationRounds bounds the gather-details loop so an endlessly
// unsure judge cannot trap the user.
const maxClarificationRounds = 3

const (
	choiceRun    = "run"
	choiceEdit   = "edit"
	choiceCancel = "cancel"

	clarifyAddDetails = "add details"
	clarifyRunAnyway  = "run anyway"
	clarifyCancel     = "cancel"
)

// Service orchestrates the query lifecycle end-to-end:
// generation, verification, informational check, severity check,
// confirmation, execution and history recording, strictly in that order.
type Service struct {
	ConfigProvider   ports.ConfigProvider
	ContextCollector ports.ContextCollector
	ProviderFactory  ports.ProviderFactory
	Extractor        ports.Extractor
	VerifierFactory  ports.VerifierFactory
	SecurityService  ports.SecurityService
	Executor         ports.CommandExecutor
	Prompter         ports.Prompter
	Presenter        ports.Presenter
	Session          ports.SessionStore
	Updates          ports.UpdateChecker
	Logger           ports.Logger

	// Messages builds the generation prompt; injected so this layer stays
	// free of template details.
	Messages func(query string, snapshot domain.ContextSnapshot) ([]domain.ChatMessage, error)
}

// Run processes a single natural-language query.
func (s *Service) Run(req domain.QueryRequest) (domain.QueryResponse, error) {
	if err := s.checkDeps(); err != nil {
		return domain.QueryResponse{}, err
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Models) == 0 {
		return domain.QueryResponse{}, domain.ErrNotConfigured
	}

	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.QueryResponse{}, err
	}

	provider, err := s.ProviderFactory.ForModel(model)
	if err != nil {
		return domain.QueryResponse{}, credentialHint(fmt.Errorf("provider init: %w", err))
	}

	snapshot, err := s.ContextCollector.Collect(ctx, cfg)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("collect context: %w", err)
	}
	if summary, err := s.Session.ContextSummary(5); err == nil {
		snapshot.HistorySummary = summary
	}

	verifier := s.VerifierFactory.ForProvider(provider)
	threshold := cfg.ConfidenceThreshold()

	query := req.Query
	var gen domain.GeneratedCommand
	var outcome domain.VerificationOutcome

	for round := 0; ; round++ {
		gen, err = s.generate(ctx, provider, query, snapshot)
		if err != nil {
			// Generation failures abort the pipeline: no execution, no
			// history write.
			return domain.QueryResponse{}, credentialHint(err)
		}

		outcome = verifier.Verify(ctx, gen.Command, query, snapshot, threshold)

		if outcome.Informational.IsInformational {
			resp, err := s.finishInformational(req, gen, outcome, snapshot)
			resp.ModelUsed = model.Name
			return resp, err
		}
		if !outcome.NeedsClarification || round >= maxClarificationRounds {
			break
		}

		decision, details, err := s.clarify(outcome)
		if err != nil {
			return domain.QueryResponse{}, err
		}
		switch decision {
		case clarifyCancel:
			resp, err := s.finish(req, gen, outcome, domain.SeverityCheck{}, snapshot, domain.OutcomeAbandoned, nil)
			resp.ModelUsed = model.Name
			return resp, err
		case clarifyRunAnyway:
			// Bypass a second generation round and fall through to the
			// normal severity and confirmation flow.
		case clarifyAddDetails:
			query = req.Query + "\nAdditional details: " + details
			continue
		}
		break
	}

	resp, err := s.confirmAndExecute(ctx, req, gen, outcome, snapshot)
	resp.ModelUsed = model.Name
	return resp, err
}

func (s *Service) checkDeps() error {
	if s.ConfigProvider == nil || s.ContextCollector == nil || s.ProviderFactory == nil ||
		s.Extractor == nil || s.VerifierFactory == nil || s.SecurityService == nil ||
		s.Executor == nil || s.Presenter == nil || s.Session == nil || s.Logger == nil {
		return errors.New("query.Service dependencies not satisfied")
	}
	return nil
}

func (s *Service) generate(ctx context.Context, provider ports.ChatProvider, query string, snapshot domain.ContextSnapshot) (domain.GeneratedCommand, error) {
	messages, err := s.buildGenerationMessages(query, snapshot)
	if err != nil {
		return domain.GeneratedCommand{}, err
	}

	s.Logger.Info("calling provider", map[string]interface{}{"provider": provider.Name()})
	raw, err := provider.Chat(ctx, messages)
	if err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("provider generate: %w", err)
	}

	gen, err := s.Extractor.Extract(raw)
	if err != nil {
		return domain.GeneratedCommand{}, fmt.Errorf("extract command: %w", err)
	}
	return gen, nil
}

// clarify presents verification issues and questions, then asks how to
// proceed. Adding details restarts generation with the original query
// augmented by the user's answer.
func (s *Service) clarify(outcome domain.VerificationOutcome) (string, string, error) {
	s.Presenter.ShowClarification(outcome.Result.Issues, outcome.Result.SuggestedQuestions)

	if s.Prompter == nil || !s.Prompter.Enabled() {
		// Non-interactive runs cannot gather details; fall through to
		// display rather than stalling.
		return clarifyRunAnyway, "", nil
	}

	decision, err := s.Prompter.Choose(
		"The command may not match your request. How do you want to proceed?",
		[]string{clarifyAddDetails, clarifyRunAnyway, clarifyCancel},
		clarifyAddDetails,
	)
	if err != nil {
		return "", "", err
	}
	if decision != clarifyAddDetails {
		return decision, "", nil
	}

	details, err := s.Prompter.Input("Add details for the request", "")
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(details) == "" {
		return clarifyRunAnyway, "", nil
	}
	return clarifyAddDetails, details, nil
}

func (s *Service) confirmAndExecute(ctx context.Context, req domain.QueryRequest, gen domain.GeneratedCommand, outcome domain.VerificationOutcome, snapshot domain.ContextSnapshot) (domain.QueryResponse, error) {
	severity := s.SecurityService.Classify(gen.Command)
	s.Presenter.ShowCommand(gen, outcome, severity)

	if req.PreviewOnly {
		return s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeCancelled, nil)
	}

	if domain.RequiresConfirmation(severity.Level) {
		ok, err := s.confirmDangerous(severity)
		if err != nil {
			return domain.QueryResponse{}, err
		}
		if !ok {
			return s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeCancelled, nil)
		}
	} else if !req.AutoExecute {
		choice, err := s.choose()
		if err != nil {
			return domain.QueryResponse{}, err
		}
		switch choice {
		case choiceCancel:
			return s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeCancelled, nil)
		case choiceEdit:
			edited, newSeverity, ok, err := s.editCommand(gen)
			if err != nil {
				return domain.QueryResponse{}, err
			}
			if !ok {
				return s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeCancelled, nil)
			}
			gen, severity = edited, newSeverity
		}
	}

	result, err := s.Executor.Run(ctx, gen.Command)
	if err != nil {
		s.Logger.Error("execution failed", err, map[string]interface{}{"command": gen.Command})
		return s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeExecuted, nil)
	}
	if result.ExitCode != 0 {
		s.Presenter.ShowExitWarning(result.ExitCode)
	}

	resp, ferr := s.finish(req, gen, outcome, severity, snapshot, domain.OutcomeExecuted, &result)

	if s.Updates != nil {
		if latest, available := s.Updates.Observe(); available {
			s.Presenter.ShowUpdateNotice(latest)
		}
	}
	return resp, ferr
}

// confirmDangerous is the explicit gate for high and critical commands. The
// default is always no: silence must never execute a dangerous command, and
// a disabled prompter declines.
func (s *Service) confirmDangerous(severity domain.SeverityCheck) (bool, error) {
	if s.Prompter == nil || !s.Prompter.Enabled() {
		return false, nil
	}
	question := fmt.Sprintf("This command is rated %s (%s). Execute anyway?", strings.ToUpper(string(severity.Level)), severity.Reason)
	return s.Prompter.Confirm(question, false)
}

func (s *Service) choose() (string, error) {
	if s.Prompter == nil || !s.Prompter.Enabled() {
		// Nothing to ask; without a terminal we do not execute.
		return choiceCancel, nil
	}
	return s.Prompter.Choose("Proceed?", []string{choiceRun, choiceEdit, choiceCancel}, choiceRun)
}

// editCommand lets the user replace the command text. The replacement is a
// new value, classified for severity from scratch; it never inherits the
// original's rating, and a newly dangerous edit hits the explicit gate. The
// stale confidence score is kept as-is (edits are not re-verified).
func (s *Service) editCommand(gen domain.GeneratedCommand) (domain.GeneratedCommand, domain.SeverityCheck, bool, error) {
	text, err := s.Prompter.Input("Edit command", gen.Command)
	if err != nil {
		return domain.GeneratedCommand{}, domain.SeverityCheck{}, false, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.GeneratedCommand{}, domain.SeverityCheck{}, false, nil
	}

	edited := domain.GeneratedCommand{Command: text, Explanation: gen.Explanation}
	severity := s.SecurityService.Classify(text)
	if domain.RequiresConfirmation(severity.Level) {
		ok, err := s.confirmDangerous(severity)
		if err != nil || !ok {
			return domain.GeneratedCommand{}, domain.SeverityCheck{}, false, err
		}
	}
	return edited, severity, true, nil
}

func (s *Service) finishInformational(req domain.QueryRequest, gen domain.GeneratedCommand, outcome domain.VerificationOutcome, snapshot domain.ContextSnapshot) (domain.QueryResponse, error) {
	message := outcome.Informational.Message
	if message == "" {
		message = gen.Explanation
	}
	s.Presenter.ShowInformational(message, outcome.Result.SuggestedQuestions)

	resp, err := s.finish(req, gen, outcome, domain.SeverityCheck{}, snapshot, domain.OutcomeInformational, nil)
	resp.Message = message
	return resp, err
}

// finish records the terminal outcome and assembles the response. Recording
// is unconditional for every path that produced a command candidate;
// cancelled and informational outcomes record with no execution result.
func (s *Service) finish(req domain.QueryRequest, gen domain.GeneratedCommand, outcome domain.VerificationOutcome, severity domain.SeverityCheck, snapshot domain.ContextSnapshot, label domain.Outcome, result *domain.ExecutionResult) (domain.QueryResponse, error) {
	record := domain.SessionRecord{
		Query:       req.Query,
		Command:     gen.Command,
		Explanation: gen.Explanation,
		Confidence:  outcome.Result.Confidence,
		Outcome:     label,
		WorkingDir:  snapshot.WorkingDir,
	}
	if record.WorkingDir == "" {
		record.WorkingDir, _ = os.Getwd()
	}
	if result != nil {
		code := result.ExitCode
		record.ExitCode = &code
		record.Stdout = domain.TruncateOutput(result.Stdout)
		record.Stderr = domain.TruncateOutput(result.Stderr)
	}
	if err := s.Session.AddRecord(record); err != nil {
		s.Logger.Warn("history write failed", map[string]interface{}{"error": err.Error()})
	}

	return domain.QueryResponse{
		Generated:    gen,
		Query:        req.Query,
		Outcome:      label,
		Verification: outcome,
		Severity:     severity,
		Execution:    result,
	}, nil
}

func (s *Service) buildGenerationMessages(query string, snapshot domain.ContextSnapshot) ([]domain.ChatMessage, error) {
	if s.Messages != nil {
		return s.Messages(query, snapshot)
	}
	return nil, errors.New("query.Service message builder not set")
}

func pickModel(cfg domain.Config, override string) (domain.ModelDefinition, error) {
	if override == "" {
		return cfg.GetDefaultModel()
	}
	if model, ok := cfg.FindModelByName(override); ok {
		return model, nil
	}
	return domain.ModelDefinition{}, fmt.Errorf("model %s not configured", override)
}

// credentialHint decorates failures that look like authorization problems so
// users check their keys instead of re-trying the same query.
func credentialHint(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"401", "403", "unauthorized", "forbidden", "api key", "api_key", "authentication", "credential"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w (this looks credential-related: check your API key, or run 'nlsh doctor')", err)
		}
	}
	return err
}

var _ domain.QueryService = (*Service)(nil)
