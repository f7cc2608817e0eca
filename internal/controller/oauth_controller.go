package controller

import (
	"context"
	"net/http"

	"github.com/steveiliop56/authlink/internal/assets"
	"github.com/steveiliop56/authlink/internal/service"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/gin-gonic/gin"
)

type CallbackResolver interface {
	Resolve(ctx context.Context, params service.CallbackParams) service.Outcome
}

type OAuthControllerConfig struct {
	CallbackPath string
	ProviderName string
}

type CallbackPage struct {
	Title    string
	Message  string
	Success  bool
	Identity string
	Token    string
	Reason   string
}

type OAuthController struct {
	config   OAuthControllerConfig
	router   *gin.RouterGroup
	resolver CallbackResolver
}

func NewOAuthController(config OAuthControllerConfig, router *gin.RouterGroup, resolver CallbackResolver) *OAuthController {
	return &OAuthController{
		config:   config,
		router:   router,
		resolver: resolver,
	}
}

func (controller *OAuthController) SetupRoutes() {
	controller.router.GET(controller.config.CallbackPath, controller.callbackHandler)
}

func (controller *OAuthController) callbackHandler(c *gin.Context) {
	var params service.CallbackParams

	err := c.ShouldBindQuery(&params)

	if err != nil {
		tlog.App.Error().Err(err).Msg("Failed to bind callback query")
		c.HTML(http.StatusBadRequest, assets.CallbackTemplate, CallbackPage{
			Title:   "Authorization failed",
			Message: "The authorization response could not be read.",
			Reason:  "bad_request",
		})
		return
	}

	params.ClientIP = c.ClientIP()

	outcome := controller.resolver.Resolve(c.Request.Context(), params)

	status, page := controller.renderOutcome(outcome)
	c.HTML(status, assets.CallbackTemplate, page)
}

func (controller *OAuthController) renderOutcome(outcome service.Outcome) (int, CallbackPage) {
	switch outcome.Status {
	case service.StatusResolved:
		return http.StatusOK, CallbackPage{
			Title:    "Authorization complete",
			Message:  "Your " + controller.config.ProviderName + " account is now linked.",
			Success:  true,
			Identity: outcome.Identity.String(),
			Token:    outcome.Credential.Redacted(),
		}
	case service.StatusOrphaned:
		return http.StatusInternalServerError, CallbackPage{
			Title:   "Authorization incomplete",
			Message: "Access was granted but could not be linked to a chat user. Please send /auth again.",
			Reason:  outcome.Reason,
		}
	}

	switch outcome.Reason {
	case service.ReasonMissingState, service.ReasonMissingCode, service.ReasonCSRFOrExpired:
		return http.StatusBadRequest, CallbackPage{
			Title:   "Authorization failed",
			Message: "This authorization link is invalid or has expired. Please send /auth again.",
			Reason:  outcome.Reason,
		}
	case service.ReasonExchangeFailed:
		return http.StatusBadGateway, CallbackPage{
			Title:   "Authorization failed",
			Message: "The provider did not accept the authorization. Please send /auth again.",
			Reason:  outcome.Reason,
		}
	}

	// The provider reported the error, the redirect itself was well formed
	message := "The provider reported an error."
	if outcome.Description != "" {
		message = outcome.Description
	}

	return http.StatusOK, CallbackPage{
		Title:   "Authorization denied",
		Message: message,
		Reason:  outcome.Reason,
	}
}
