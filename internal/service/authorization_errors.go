package service

import "errors"

var (
	ErrDuplicateToken        = errors.New("state token already pending")
	ErrUnknownToken          = errors.New("state token unknown, consumed or expired")
	ErrTokenGenerationFailed = errors.New("failed to generate state token")
	ErrAuthURLBuildFailed    = errors.New("failed to build authorization url")
	ErrExchangeFailed        = errors.New("authorization code exchange failed")
)
