package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
)

var wildcardAddresses = []string{"", "0.0.0.0", "::", "[::]"}

// Validate checks the struct tags first and then the rules that span multiple fields.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.OAuth.Provider {
	case "generic":
		if c.OAuth.AuthURL == "" || c.OAuth.TokenURL == "" {
			return errors.New("generic oauth provider requires auth url and token url")
		}
	case "oidc":
		if c.OAuth.Issuer == "" {
			return errors.New("oidc oauth provider requires an issuer")
		}
	}

	reserved := []string{"/", "/health"}

	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return errors.New("metrics path must start with /")
		}
		reserved = append(reserved, c.Metrics.Path)
	}

	if slices.Contains(reserved, c.Server.CallbackPath) {
		return fmt.Errorf("callback path %s collides with a built-in route", c.Server.CallbackPath)
	}

	if c.Bot.Token == "" {
		return errors.New("bot token is required")
	}

	if c.Bot.Mode != BotModePush {
		return nil
	}

	if c.Bot.Webhook.URL == "" {
		return errors.New("push mode requires a webhook url")
	}

	if c.Bot.Webhook.Port == 0 {
		return errors.New("push mode requires a webhook port")
	}

	if !strings.HasPrefix(c.Bot.Webhook.Path, "/") {
		return errors.New("webhook path must start with /")
	}

	if ListenersConflict(c.Server.Address, c.Server.Port, c.Bot.Webhook.Address, c.Bot.Webhook.Port) {
		return fmt.Errorf("webhook listener %s conflicts with callback listener %s",
			net.JoinHostPort(c.Bot.Webhook.Address, strconv.Itoa(c.Bot.Webhook.Port)),
			net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port)))
	}

	return nil
}

// ListenersConflict reports whether two bind endpoints would fight over the same socket.
func ListenersConflict(addrA string, portA int, addrB string, portB int) bool {
	if portA != portB {
		return false
	}

	if addrA == addrB {
		return true
	}

	for _, wildcard := range wildcardAddresses {
		if addrA == wildcard || addrB == wildcard {
			return true
		}
	}

	return false
}
