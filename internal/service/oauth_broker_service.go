package service

import (
	"context"
	"fmt"
	"time"

	"github.com/steveiliop56/authlink/internal/model"
	"github.com/steveiliop56/authlink/internal/utils/tlog"
)

type OAuthService interface {
	Init() error
	GenerateVerifier() string
	GetAuthURL(state string, verifier string) (string, error)
	Exchange(ctx context.Context, code string, verifier string) (model.Credential, error)
	GetName() string
}

type OAuthServiceConfig struct {
	Provider     string
	Name         string
	ClientID     string
	ClientSecret string
	Scopes       []string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Issuer       string
	AuthParams   map[string]string
	HTTPTimeout  time.Duration
	Insecure     bool
}

// OAuthBrokerService picks the client implementation for the configured provider type.
type OAuthBrokerService struct {
	config  OAuthServiceConfig
	service OAuthService
}

func NewOAuthBrokerService(config OAuthServiceConfig) *OAuthBrokerService {
	return &OAuthBrokerService{
		config: config,
	}
}

func (broker *OAuthBrokerService) Init() error {
	var service OAuthService

	switch broker.config.Provider {
	case "google":
		service = NewGoogleOAuthService(broker.config)
	case "github":
		service = NewGithubOAuthService(broker.config)
	case "oidc":
		service = NewOIDCOAuthService(broker.config)
	case "generic":
		service = NewGenericOAuthService(broker.config)
	default:
		return fmt.Errorf("unknown oauth provider type: %s", broker.config.Provider)
	}

	err := service.Init()

	if err != nil {
		tlog.App.Error().Err(err).Str("provider", broker.config.Provider).Msg("Failed to initialize OAuth service")
		return err
	}

	tlog.App.Info().Str("provider", broker.config.Provider).Str("name", service.GetName()).Msg("Initialized OAuth service")

	broker.service = service
	return nil
}

func (broker *OAuthBrokerService) GetService() OAuthService {
	return broker.service
}
