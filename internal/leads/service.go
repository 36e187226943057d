package leads

import (
	"context"
	"strings"

	"github.com/evrodrive/leadgate/internal/observability/metrics"
	"github.com/evrodrive/leadgate/internal/recaptcha"
	"github.com/evrodrive/leadgate/pkg/logging"
)

// Notifier is told about freshly persisted leads. Failures are logged and
// never propagated: once the record is durably written the submission has
// succeeded, and failing the request here would invite duplicate resubmits.
type Notifier interface {
	LeadCreated(ctx context.Context, lead *Lead) error
}

// Service runs the submission pipeline: validate, verify the captcha token,
// persist, notify.
type Service struct {
	repo           Repository
	verifier       recaptcha.Verifier
	requireCaptcha bool
	notifier       Notifier
	metrics        *metrics.LeadMetrics
	logger         *logging.Logger
}

// ServiceConfig holds the collaborators for a Service.
type ServiceConfig struct {
	Repository Repository
	// Verifier checks recaptcha tokens. Ignored when RequireCaptcha is false.
	Verifier recaptcha.Verifier
	// RequireCaptcha gates both the token-presence check and verification.
	RequireCaptcha bool
	// Notifier may be nil when notifications are disabled.
	Notifier Notifier
	// Metrics may be nil; observations become no-ops.
	Metrics *metrics.LeadMetrics
	Logger  *logging.Logger
}

// NewService creates a submission service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Repository == nil {
		panic("leads: repository required")
	}
	if cfg.RequireCaptcha && cfg.Verifier == nil {
		panic("leads: verifier required when captcha is enabled")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		repo:           cfg.Repository,
		verifier:       cfg.Verifier,
		requireCaptcha: cfg.RequireCaptcha,
		notifier:       cfg.Notifier,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
	}
}

// Submit validates and persists one lead submission. Any returned error maps
// to a client-visible failure; the message is shown to the visitor.
func (s *Service) Submit(ctx context.Context, req *SubmitLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.requireCaptcha {
		if strings.TrimSpace(req.RecaptchaToken) == "" {
			return nil, ErrMissingCaptchaToken
		}
		if err := s.verifier.Verify(ctx, req.RecaptchaToken); err != nil {
			return nil, err
		}
	}

	lead, err := s.repo.Create(ctx, req.Lead())
	if err != nil {
		s.logger.Error("failed to persist lead", "error", err, "email", req.Email)
		return nil, err
	}
	s.logger.Info("lead created", "id", lead.ID, "model", lead.ModelID, "language", lead.PreferredLanguage)

	if s.notifier != nil {
		if err := s.notifier.LeadCreated(ctx, lead); err != nil {
			// The lead is already stored; a lost email must not turn the
			// submission into a client-visible failure.
			s.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
			s.metrics.ObserveNotification("failed")
		} else {
			s.metrics.ObserveNotification("sent")
		}
	}

	return lead, nil
}
