package globals

// Context keys
type ContextKey string

const (
	AccountIDKey ContextKey = "accountId"
	EmailKey     ContextKey = "email"
)

// IdentityHeader carries the caller's email when AUTH_MODE=header.
const IdentityHeader = "X-User-Email"
