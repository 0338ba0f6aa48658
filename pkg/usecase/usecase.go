package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/riskatlas/pkg/domain/interfaces"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/auth"
	"github.com/secmon-lab/riskatlas/pkg/domain/model/config"
)

// ChangeHook is called after every successful write
type ChangeHook func(ctx context.Context)

func (h ChangeHook) orNoop() ChangeHook {
	if h == nil {
		return func(context.Context) {}
	}
	return h
}

type UseCases struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	now        func() time.Time
	onChange   ChangeHook

	Division   *DivisionUseCase
	Team       *TeamUseCase
	Service    *ServiceUseCase
	Assessment *AssessmentUseCase
	Report     *ReportUseCase
	Auth       AuthUseCaseInterface
}

type Option func(*UseCases)

func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces the time source used by reports
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithChangeHook registers a hook run after create, update and delete
func WithChangeHook(hook ChangeHook) Option {
	return func(uc *UseCases) {
		uc.onChange = hook
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		riskConfig: &config.RiskConfig{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	notify := uc.onChange.orNoop()

	uc.Division = NewDivisionUseCase(repo, notify)
	uc.Team = NewTeamUseCase(repo, notify)
	uc.Service = NewServiceUseCase(repo, notify)
	uc.Assessment = NewAssessmentUseCase(repo, uc.riskConfig, notify)
	uc.Report = NewReportUseCase(repo, uc.riskConfig, uc.now)
	if uc.Auth == nil {
		uc.Auth = NewAuthUseCase(repo)
	}

	return uc
}

// RiskConfig returns the risk configuration in effect
func (uc *UseCases) RiskConfig() *config.RiskConfig {
	return uc.riskConfig
}

// actor returns the identity recorded as creator of a write, or empty
func actor(ctx context.Context) string {
	if token := auth.TokenFromContext(ctx); token != nil {
		return token.Actor()
	}
	return ""
}
