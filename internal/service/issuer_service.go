package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/steveiliop56/authlink/internal/metrics"
	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/utils"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/google/uuid"
)

const defaultIssueAttempts = 3

type IssuerServiceConfig struct {
	MaxAttempts int
}

// IssuerService starts authorization attempts. Every call creates a new token,
// earlier tokens of the same identity stay valid until consumed or expired.
type IssuerService struct {
	config        IssuerServiceConfig
	store         *StateStoreService
	oauth         OAuthService
	generateToken func() (string, error)
}

func NewIssuerService(config IssuerServiceConfig, store *StateStoreService, oauth OAuthService) *IssuerService {
	return &IssuerService{
		config:        config,
		store:         store,
		oauth:         oauth,
		generateToken: utils.GenerateStateToken,
	}
}

func (issuer *IssuerService) Init() error {
	if issuer.store == nil {
		return errors.New("issuer requires a state store")
	}
	if issuer.oauth == nil {
		return errors.New("issuer requires an oauth service")
	}
	if issuer.config.MaxAttempts <= 0 {
		issuer.config.MaxAttempts = defaultIssueAttempts
	}
	return nil
}

// SetTokenGenerator replaces the state token source.
func (issuer *IssuerService) SetTokenGenerator(generate func() (string, error)) {
	issuer.generateToken = generate
}

func (issuer *IssuerService) Issue(identity model.Identity) (string, string, error) {
	attempt := model.Attempt{
		ID:       uuid.NewString(),
		Identity: identity,
		Verifier: issuer.oauth.GenerateVerifier(),
		IssuedAt: time.Now(),
	}

	token, err := issuer.reserveToken(attempt)

	if err != nil {
		return "", "", err
	}

	authURL, err := issuer.oauth.GetAuthURL(token, attempt.Verifier)

	if err != nil {
		issuer.store.Expire(token)
		if !errors.Is(err, ErrAuthURLBuildFailed) {
			err = fmt.Errorf("%w: %w", ErrAuthURLBuildFailed, err)
		}
		return "", "", err
	}

	metrics.AuthorizationsIssued.Inc()
	metrics.PendingStates.Set(float64(issuer.store.Len()))
	tlog.AuditAuthorizationIssued(identity, attempt.ID)

	return authURL, token, nil
}

func (issuer *IssuerService) reserveToken(attempt model.Attempt) (string, error) {
	for range issuer.config.MaxAttempts {
		token, err := issuer.generateToken()

		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTokenGenerationFailed, err)
		}

		err = issuer.store.Put(token, attempt)

		if err == nil {
			return token, nil
		}

		if !errors.Is(err, ErrDuplicateToken) {
			return "", err
		}

		tlog.App.Warn().Str("attempt", attempt.ID).Msg("State token collided with a pending one, regenerating")
	}

	return "", fmt.Errorf("%w: %d consecutive collisions", ErrTokenGenerationFailed, issuer.config.MaxAttempts)
}
