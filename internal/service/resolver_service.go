package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/utils/tlog"
)

type OutcomeStatus string

const (
	StatusResolved OutcomeStatus = metrics.OutcomeResolved
	StatusRejected OutcomeStatus = metrics.OutcomeRejected
	StatusOrphaned OutcomeStatus = metrics.OutcomeOrphaned
)

// Rejection reasons raised by the resolver itself. Provider errors are passed through verbatim.
const (
	ReasonMissingState   = "missing_state"
	ReasonMissingCode    = "missing_code"
	ReasonCSRFOrExpired  = "csrf_or_expired"
	ReasonExchangeFailed = "exchange_failed"
	ReasonUnbound        = "identity_unbound"
)

const defaultExchangeTimeout = 30 * time.Second

type CallbackParams struct {
	State            string `form:"state"`
	Code             string `form:"code"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
	ClientIP         string `form:"-"`
}

type Outcome struct {
	Status      OutcomeStatus
	Reason      string
	Description string
	AttemptID   string
	Identity    model.Identity
	Credential  model.Credential
	Err         error
}

type CredentialSink interface {
	Bind(identity model.Identity, credential model.Credential) error
}

type OutcomeNotifier interface {
	NotifyOutcome(ctx context.Context, outcome Outcome) error
}

type ResolverServiceConfig struct {
	ExchangeTimeout time.Duration
	NotifyTimeout   time.Duration
}

type ResolverService struct {
	config   ResolverServiceConfig
	store    *StateStoreService
	oauth    OAuthService
	sink     CredentialSink
	notifier OutcomeNotifier
	inflight sync.WaitGroup
}

func NewResolverService(config ResolverServiceConfig, store *StateStoreService, oauth OAuthService, sink CredentialSink) *ResolverService {
	return &ResolverService{
		config: config,
		store:  store,
		oauth:  oauth,
		sink:   sink,
	}
}

func (resolver *ResolverService) Init() error {
	if resolver.store == nil || resolver.oauth == nil || resolver.sink == nil {
		return errors.New("resolver requires a state store, an oauth service and a credential sink")
	}
	if resolver.config.ExchangeTimeout <= 0 {
		resolver.config.ExchangeTimeout = defaultExchangeTimeout
	}
	if resolver.config.NotifyTimeout <= 0 {
		resolver.config.NotifyTimeout = 10 * time.Second
	}
	return nil
}

// SetNotifier wires the chat side after both sides exist, the notifier depends on the issuer.
func (resolver *ResolverService) SetNotifier(notifier OutcomeNotifier) {
	resolver.notifier = notifier
}

func (resolver *ResolverService) Resolve(ctx context.Context, params CallbackParams) Outcome {
	resolver.inflight.Add(1)
	defer resolver.inflight.Done()

	outcome := resolver.resolve(ctx, params)

	metrics.AuthorizationOutcomes.WithLabelValues(string(outcome.Status), metricReason(outcome.Reason)).Inc()
	metrics.PendingStates.Set(float64(resolver.store.Len()))

	switch outcome.Status {
	case StatusResolved:
		tlog.AuditAuthorizationResolved(outcome.Identity, outcome.AttemptID, outcome.Credential.Provider)
	case StatusOrphaned:
		tlog.AuditAuthorizationOrphaned(outcome.Identity, outcome.AttemptID, outcome.Credential.Provider, outcome.Err)
	default:
		tlog.AuditAuthorizationRejected(outcome.Reason, outcome.AttemptID, params.ClientIP)
	}

	resolver.notify(ctx, outcome)

	return outcome
}

// Wait blocks until every running Resolve has returned or ctx is done. The callback
// listener may stop before a detached exchange finishes, the process must not.
func (resolver *ResolverService) Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		resolver.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DrainTimeout is the longest a single Resolve can keep running after its caller left.
func (resolver *ResolverService) DrainTimeout() time.Duration {
	return resolver.config.ExchangeTimeout + resolver.config.NotifyTimeout
}

func (resolver *ResolverService) resolve(ctx context.Context, params CallbackParams) Outcome {
	if params.Error != "" {
		// The attempt is over either way, so the token must not stay consumable
		outcome := Outcome{
			Status:      StatusRejected,
			Reason:      params.Error,
			Description: params.ErrorDescription,
		}

		if attempt, ok := resolver.store.Discard(params.State); ok {
			outcome.AttemptID = attempt.ID
			outcome.Identity = attempt.Identity
		}

		return outcome
	}

	if params.State == "" {
		return Outcome{
			Status: StatusRejected,
			Reason: ReasonMissingState,
			Err:    ErrUnknownToken,
		}
	}

	attempt, err := resolver.store.Take(params.State)

	if err != nil {
		return Outcome{
			Status: StatusRejected,
			Reason: ReasonCSRFOrExpired,
			Err:    err,
		}
	}

	if params.Code == "" {
		return Outcome{
			Status:    StatusRejected,
			Reason:    ReasonMissingCode,
			AttemptID: attempt.ID,
			Identity:  attempt.Identity,
		}
	}

	// A provider code is single use, finish the exchange even if the caller went away
	exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolver.config.ExchangeTimeout)
	defer cancel()

	start := time.Now()
	credential, err := resolver.oauth.Exchange(exchangeCtx, params.Code, attempt.Verifier)
	metrics.ExchangeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if !errors.Is(err, ErrExchangeFailed) {
			err = fmt.Errorf("%w: %w", ErrExchangeFailed, err)
		}
		return Outcome{
			Status:    StatusRejected,
			Reason:    ReasonExchangeFailed,
			AttemptID: attempt.ID,
			Identity:  attempt.Identity,
			Err:       err,
		}
	}

	err = resolver.sink.Bind(attempt.Identity, credential)

	if err != nil {
		return Outcome{
			Status:     StatusOrphaned,
			Reason:     ReasonUnbound,
			AttemptID:  attempt.ID,
			Identity:   attempt.Identity,
			Credential: credential,
			Err:        err,
		}
	}

	return Outcome{
		Status:     StatusResolved,
		AttemptID:  attempt.ID,
		Identity:   attempt.Identity,
		Credential: credential,
	}
}

func (resolver *ResolverService) notify(ctx context.Context, outcome Outcome) {
	if resolver.notifier == nil || outcome.Identity.IsZero() {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolver.config.NotifyTimeout)
	defer cancel()

	err := resolver.notifier.NotifyOutcome(notifyCtx, outcome)

	if err != nil {
		tlog.App.Warn().Err(err).Str("attempt", outcome.AttemptID).Msg("Failed to notify identity about authorization outcome")
	}
}

// metricReason keeps provider supplied error strings out of metric labels.
func metricReason(reason string) string {
	switch reason {
	case "", ReasonMissingState, ReasonMissingCode, ReasonCSRFOrExpired, ReasonExchangeFailed, ReasonUnbound:
		return reason
	default:
		return "provider_error"
	}
}
