package bootstrap

import (
	"time"

	"github.com/steveiliop56/authlink/internal/service"
)

type Services struct {
	stateStoreService  *service.StateStoreService
	oauthBrokerService *service.OAuthBrokerService
	issuerService      *service.IssuerService
	credentialService  *service.CredentialService
	resolverService    *service.ResolverService
	telegramService    *service.TelegramService
	commandService     *service.CommandService
}

func (app *BootstrapApp) initServices() (Services, error) {
	services := Services{}

	stateStoreService := service.NewStateStoreService(service.StateStoreServiceConfig{
		TTL: time.Duration(app.config.OAuth.StateTTL) * time.Second,
	})

	err := stateStoreService.Init()

	if err != nil {
		return Services{}, err
	}

	services.stateStoreService = stateStoreService

	oauthBrokerService := service.NewOAuthBrokerService(service.OAuthServiceConfig{
		Provider:     app.config.OAuth.Provider,
		Name:         app.config.OAuth.Name,
		ClientID:     app.config.OAuth.ClientID,
		ClientSecret: app.config.OAuth.ClientSecret,
		Scopes:       app.config.OAuth.Scopes,
		RedirectURL:  app.config.OAuth.RedirectURL,
		AuthURL:      app.config.OAuth.AuthURL,
		TokenURL:     app.config.OAuth.TokenURL,
		Issuer:       app.config.OAuth.Issuer,
		AuthParams:   app.config.OAuth.AuthParams,
		HTTPTimeout:  time.Duration(app.config.OAuth.ExchangeTimeout) * time.Second,
		Insecure:     app.config.OAuth.Insecure,
	})

	err = oauthBrokerService.Init()

	if err != nil {
		return Services{}, err
	}

	services.oauthBrokerService = oauthBrokerService

	issuerService := service.NewIssuerService(service.IssuerServiceConfig{}, stateStoreService, oauthBrokerService.GetService())

	err = issuerService.Init()

	if err != nil {
		return Services{}, err
	}

	services.issuerService = issuerService

	credentialService := service.NewCredentialService()

	err = credentialService.Init()

	if err != nil {
		return Services{}, err
	}

	services.credentialService = credentialService

	resolverService := service.NewResolverService(service.ResolverServiceConfig{
		ExchangeTimeout: time.Duration(app.config.OAuth.ExchangeTimeout) * time.Second,
	}, stateStoreService, oauthBrokerService.GetService(), credentialService)

	err = resolverService.Init()

	if err != nil {
		return Services{}, err
	}

	services.resolverService = resolverService

	telegramService := service.NewTelegramService(service.TelegramServiceConfig{
		Token:              app.config.Bot.Token,
		APIURL:             app.config.Bot.APIURL,
		Debug:              app.config.Bot.Debug,
		PollTimeout:        app.config.Bot.Poll.Timeout,
		WebhookURL:         app.config.Bot.Webhook.URL,
		WebhookSecret:      app.config.Bot.Webhook.SecretToken,
		DropPendingUpdates: app.config.Bot.Webhook.DropPendingUpdates,
	})

	err = telegramService.Init()

	if err != nil {
		return Services{}, err
	}

	services.telegramService = telegramService

	commandService := service.NewCommandService(service.CommandServiceConfig{
		AppName:      "authlink",
		ProviderName: app.config.OAuth.Name,
	}, issuerService, credentialService, telegramService)

	err = commandService.Init()

	if err != nil {
		return Services{}, err
	}

	services.commandService = commandService

	resolverService.SetNotifier(commandService)

	return services, nil
}
