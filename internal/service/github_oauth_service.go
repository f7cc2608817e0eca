package service

import (
	"golang.org/x/oauth2/endpoints"
)

var GithubOAuthScopes = []string{"read:user"}

func NewGithubOAuthService(config OAuthServiceConfig) *GenericOAuthService {
	if len(config.Scopes) == 0 {
		config.Scopes = GithubOAuthScopes
	}

	service := NewGenericOAuthService(config)
	service.config.Endpoint = endpoints.GitHub
	return service
}
