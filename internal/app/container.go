// Package app assembles the dependency graph.
package app

import (
	"context"

	"github.com/nlshell/nlsh/internal/application/doctor"
	"github.com/nlshell/nlsh/internal/application/query"
	"github.com/nlshell/nlsh/internal/infrastructure/ai"
	"github.com/nlshell/nlsh/internal/infrastructure/config"
	"github.com/nlshell/nlsh/internal/infrastructure/contextinfo"
	"github.com/nlshell/nlsh/internal/infrastructure/executor"
	"github.com/nlshell/nlsh/internal/infrastructure/security"
	"github.com/nlshell/nlsh/internal/infrastructure/session"
	"github.com/nlshell/nlsh/internal/infrastructure/update"
	"github.com/nlshell/nlsh/internal/pkg/logger"
	"github.com/nlshell/nlsh/internal/ports"
)

// Container wires application services with infrastructure adapters. The
// interactive pieces (prompter, presenter) are attached by the CLI layer,
// which owns the terminal.
type Container struct {
	QueryService   *query.Service
	DoctorService  *doctor.Service
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Guardrail      *security.Guardrail
	SessionStore   ports.SessionStore
	UpdateChecker  *update.Checker
	Logger         *logger.ZapLogger
}

// BuildContainer constructs the dependency graph and kicks off the
// background update check.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)
	collector := contextinfo.NewCollector()

	store, err := session.NewStore("")
	if err != nil {
		return nil, err
	}

	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
	if err != nil {
		// A broken rules override must not disable classification; fall
		// back to the embedded table.
		guardrail, err = security.NewGuardrail("")
		if err != nil {
			return nil, err
		}
	}

	checker := update.NewChecker("")
	checker.Start(ctx)

	queryService := &query.Service{
		ConfigProvider:   cfgLoader,
		ContextCollector: collector,
		ProviderFactory:  ai.NewFactory(),
		Extractor:        ai.NewExtractor(),
		VerifierFactory:  ai.NewJudgeFactory(log),
		SecurityService:  guardrail,
		Executor:         executor.NewLocalExecutor(cfg.Execution.Shell),
		Session:          store,
		Updates:          checker,
		Logger:           log,
		Messages:         ai.GenerationMessages,
	}

	doctorService := &doctor.Service{
		ConfigProvider:   cfgLoader,
		SecurityService:  guardrail,
		ContextCollector: collector,
		Session:          store,
	}

	return &Container{
		QueryService:   queryService,
		DoctorService:  doctorService,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Guardrail:      guardrail,
		SessionStore:   store,
		UpdateChecker:  checker,
		Logger:         log,
	}, nil
}
