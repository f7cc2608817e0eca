package tlog

import "github.com/steveiliop56/authlink/internal/model"

func AuditAuthorizationIssued(identity model.Identity, attemptID string) {
	Audit.Info().
		Str("event", "authorization_issued").
		Str("attempt", attemptID).
		Int64("user_id", identity.UserID).
		Int64("chat_id", identity.ChatID).
		Send()
}

func AuditAuthorizationResolved(identity model.Identity, attemptID string, provider string) {
	Audit.Info().
		Str("event", "authorization_resolved").
		Str("result", "success").
		Str("attempt", attemptID).
		Int64("user_id", identity.UserID).
		Int64("chat_id", identity.ChatID).
		Str("provider", provider).
		Send()
}

// AuditAuthorizationRejected takes the client IP because a rejected callback may carry no identity.
func AuditAuthorizationRejected(reason string, attemptID string, clientIP string) {
	Audit.Warn().
		Str("event", "authorization_rejected").
		Str("result", "failure").
		Str("reason", reason).
		Str("attempt", attemptID).
		Str("ip", clientIP).
		Send()
}

func AuditAuthorizationOrphaned(identity model.Identity, attemptID string, provider string, err error) {
	Audit.Error().
		Err(err).
		Str("event", "authorization_orphaned").
		Str("result", "orphaned").
		Str("attempt", attemptID).
		Int64("user_id", identity.UserID).
		Int64("chat_id", identity.ChatID).
		Str("provider", provider).
		Send()
}
