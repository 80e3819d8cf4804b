package ports

// AuthClaims is what the transport layer extracts from a verified bearer
// token. Token issuing lives in the platform auth service; this service only
// verifies.
type AuthClaims struct {
	UserID string
	Role   string
}

type TokenVerifier interface {
	Verify(token string) (AuthClaims, error)
}
