package service

import (
	"context"
	"fmt"

	"github.com/steveiliop56/authlink/internal/model"

	"github.com/coreos/go-oidc/v3/oidc"
)

var OIDCOAuthScopes = []string{oidc.ScopeOpenID, "profile", "email"}

type OIDCOAuthService struct {
	*GenericOAuthService
	issuer   string
	verifier *oidc.IDTokenVerifier
}

type oidcClaims struct {
	Email string `json:"email"`
}

func NewOIDCOAuthService(config OAuthServiceConfig) *OIDCOAuthService {
	if len(config.Scopes) == 0 {
		config.Scopes = OIDCOAuthScopes
	}

	return &OIDCOAuthService{
		GenericOAuthService: NewGenericOAuthService(config),
		issuer:              config.Issuer,
	}
}

// Init runs provider discovery, so it needs the issuer to be reachable at startup.
func (o *OIDCOAuthService) Init() error {
	err := o.GenericOAuthService.Init()

	if err != nil {
		return err
	}

	ctx := oidc.ClientContext(context.Background(), o.httpClient)

	provider, err := oidc.NewProvider(ctx, o.issuer)

	if err != nil {
		return fmt.Errorf("failed to discover oidc provider %s: %w", o.issuer, err)
	}

	o.config.Endpoint = provider.Endpoint()
	o.verifier = provider.Verifier(&oidc.Config{
		ClientID: o.config.ClientID,
	})

	return nil
}

func (o *OIDCOAuthService) Exchange(ctx context.Context, code string, verifier string) (model.Credential, error) {
	token, err := o.exchangeToken(ctx, code, verifier)

	if err != nil {
		return model.Credential{}, err
	}

	credential := o.credentialFromToken(token)

	rawIDToken, ok := token.Extra("id_token").(string)

	if !ok || rawIDToken == "" {
		return credential, nil
	}

	idToken, err := o.verifier.Verify(oidc.ClientContext(ctx, o.httpClient), rawIDToken)

	if err != nil {
		return model.Credential{}, fmt.Errorf("%w: id token verification failed: %w", ErrExchangeFailed, err)
	}

	var claims oidcClaims

	if err := idToken.Claims(&claims); err != nil {
		return model.Credential{}, fmt.Errorf("%w: failed to decode id token claims: %w", ErrExchangeFailed, err)
	}

	credential.Subject = idToken.Subject
	credential.Email = claims.Email

	return credential, nil
}
