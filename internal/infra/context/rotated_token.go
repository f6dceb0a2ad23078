package context

import (
	"context"
)

const contextKeyRotatedToken = contextKey("rotatedToken")

// RotatedTokenFromContext extracts the freshly minted session token from
// the context. The auth gate deposits one on every successful
// verification; handlers echo it in their response payload.
func RotatedTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(contextKeyRotatedToken).(string)

	return token, ok
}

// WithRotatedToken creates a new context carrying the rotated session token.
func WithRotatedToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyRotatedToken, token)
}
