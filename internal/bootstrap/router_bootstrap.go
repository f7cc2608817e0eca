package bootstrap

import (
	"fmt"

	"github.com/steveiliop56/authlink/internal/assets"
	"github.com/steveiliop56/authlink/internal/controller"
	"github.com/steveiliop56/authlink/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *BootstrapApp) newEngine(quietPaths []string) (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(app.config.Server.TrustedProxies) > 0 {
		err := engine.SetTrustedProxies(app.config.Server.TrustedProxies)

		if err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	zerologMiddleware := middleware.NewZerologMiddleware(middleware.ZerologMiddlewareConfig{
		QuietPaths: quietPaths,
	})

	err := zerologMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize zerolog middleware: %w", err)
	}

	engine.Use(zerologMiddleware.Middleware())

	return engine, nil
}

func (app *BootstrapApp) setupCallbackRouter() (*gin.Engine, error) {
	quietPaths := []string{"GET /health", "HEAD /health", "GET /favicon.ico"}

	if app.config.Metrics.Enabled {
		quietPaths = append(quietPaths, "GET "+app.config.Metrics.Path)
	}

	engine, err := app.newEngine(quietPaths)

	if err != nil {
		return nil, err
	}

	tmpl, err := assets.LoadTemplates()

	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	engine.SetHTMLTemplate(tmpl)

	oauthController := controller.NewOAuthController(controller.OAuthControllerConfig{
		CallbackPath: app.config.Server.CallbackPath,
		ProviderName: app.config.OAuth.Name,
	}, &engine.RouterGroup, app.services.resolverService)

	oauthController.SetupRoutes()

	healthController := controller.NewHealthController(&engine.RouterGroup)

	healthController.SetupRoutes()

	if app.config.Metrics.Enabled {
		engine.GET(app.config.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	return engine, nil
}

func (app *BootstrapApp) setupWebhookRouter() (*gin.Engine, error) {
	engine, err := app.newEngine([]string{})

	if err != nil {
		return nil, err
	}

	webhookController := controller.NewWebhookController(controller.WebhookControllerConfig{
		Path:        app.config.Bot.Webhook.Path,
		SecretToken: app.config.Bot.Webhook.SecretToken,
	}, &engine.RouterGroup, app.services.commandService)

	webhookController.SetupRoutes()

	return engine, nil
}
