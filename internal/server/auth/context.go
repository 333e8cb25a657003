package auth

import "context"

type (
	unlockedKey   struct{}
	clientAddrKey struct{}
)

// WithUnlocked marks ctx as carrying a verified unlock grant.
func WithUnlocked(ctx context.Context) context.Context {
	return context.WithValue(ctx, unlockedKey{}, true)
}

// IsUnlocked reports whether WithUnlocked was applied to ctx.
func IsUnlocked(ctx context.Context) bool {
	v, _ := ctx.Value(unlockedKey{}).(bool)
	return v
}

// WithClientAddr records the network address a request came from.
func WithClientAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientAddrKey{}, addr)
}

// ClientAddr returns the address set by WithClientAddr, or "".
func ClientAddr(ctx context.Context) string {
	v, _ := ctx.Value(clientAddrKey{}).(string)
	return v
}
