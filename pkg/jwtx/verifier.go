package jwtx

import "errors"

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	// ErrEmpty reports that no token was supplied at all. Callers treat it
	// the same as a failed verification but log it separately.
	ErrEmpty = errors.New("jwtx: empty token")

	// ErrMalformed covers anything that prevents the token being trusted:
	// undecodable structure, unexpected algorithm, or a bad signature. The
	// distinction is deliberately not exposed to avoid oracle behaviour.
	ErrMalformed = errors.New("jwtx: malformed token")

	ErrBadSecret = errors.New("jwtx: signing secret too short")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// NewVerifierHS256 returns a Verifier for HS256 tokens signed with the
// given shared secret.
func NewVerifierHS256(secret []byte, issuer string) (Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrBadSecret
	}
	return &hs256Verifier{secret: secret, issuer: issuer}, nil
}
