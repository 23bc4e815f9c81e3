package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerHS256 creates an HS256 signer from a shared secret. The secret
// must be at least MinSecretLength bytes; construction fails otherwise so a
// misconfigured key aborts startup instead of surfacing per-request.
func NewSignerHS256(secret []byte) (Signer, error) {
	return newHS256Signer(secret)
}
