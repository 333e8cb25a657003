package common

const (
	// AccessTokenQueryName is the query parameter carrying the session token.
	AccessTokenQueryName = "token"

	// UnlockTokenQueryName and UnlockTokenHeaderName carry a locked-partition
	// grant issued by a successful PIN verification.
	UnlockTokenQueryName  = "unlock"
	UnlockTokenHeaderName = "X-Unlock-Token"
)
