package controller

import (
	"context"
	"net/http"

	"github.com/steveiliop56/authlink/internal/utils"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

type WebhookControllerConfig struct {
	Path        string
	SecretToken string
}

type WebhookController struct {
	config  WebhookControllerConfig
	router  *gin.RouterGroup
	handler UpdateHandler
}

func NewWebhookController(config WebhookControllerConfig, router *gin.RouterGroup, handler UpdateHandler) *WebhookController {
	return &WebhookController{
		config:  config,
		router:  router,
		handler: handler,
	}
}

func (controller *WebhookController) SetupRoutes() {
	controller.router.POST(controller.config.Path, controller.webhookHandler)
}

func (controller *WebhookController) webhookHandler(c *gin.Context) {
	if controller.config.SecretToken != "" {
		if !utils.SecretsEqual(controller.config.SecretToken, c.GetHeader(SecretTokenHeader)) {
			tlog.Bot.Warn().Str("clientIp", c.ClientIP()).Msg("Webhook request with invalid secret token")
			c.JSON(http.StatusForbidden, gin.H{
				"status":  403,
				"message": "Forbidden",
			})
			return
		}
	}

	var update tgbotapi.Update

	err := c.ShouldBindJSON(&update)

	if err != nil {
		tlog.Bot.Error().Err(err).Msg("Failed to decode webhook update")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  400,
			"message": "Bad Request",
		})
		return
	}

	// The platform retries on non-2xx, handler errors are ours to log
	err = controller.handler.HandleUpdate(context.WithoutCancel(c.Request.Context()), update)

	if err != nil {
		tlog.Bot.Error().Err(err).Int("update_id", update.UpdateID).Msg("Failed to handle update")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  200,
		"message": "OK",
	})
}
