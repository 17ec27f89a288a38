package auth

import "context"

// Identity is a signed-in principal as reported by the identity service.
type Identity struct {
	UID   string
	Email string
}

// Provider authenticates email/password credentials. Failures carry one of
// the fixed categories from errors.go.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
}

// TokenRevoker terminates server-side sessions for an identity. The
// Firebase Admin auth client satisfies this; in local mode it is nil and
// logout is a no-op.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}
