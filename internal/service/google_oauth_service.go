package service

import (
	"maps"

	"golang.org/x/oauth2/endpoints"
)

var GoogleOAuthScopes = []string{"https://www.googleapis.com/auth/drive.file"}

var GoogleAuthParams = map[string]string{
	"include_granted_scopes": "true",
	"prompt":                 "consent",
}

func NewGoogleOAuthService(config OAuthServiceConfig) *GenericOAuthService {
	if len(config.Scopes) == 0 {
		config.Scopes = GoogleOAuthScopes
	}

	params := maps.Clone(GoogleAuthParams)
	maps.Copy(params, config.AuthParams)
	config.AuthParams = params

	service := NewGenericOAuthService(config)
	service.config.Endpoint = endpoints.Google
	return service
}
