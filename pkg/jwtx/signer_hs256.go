package jwtx

import "github.com/golang-jwt/jwt/v5"

// MinSecretLength is the minimum accepted HMAC secret size. HS256 keys
// shorter than the hash output weaken the MAC, so we refuse them outright.
const MinSecretLength = 32

type hs256Signer struct {
	secret []byte
}

func newHS256Signer(secret []byte) (*hs256Signer, error) {
	s := &hs256Signer{secret: secret}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *hs256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Validate checks the signer is usable. It is called at construction and
// again by readiness probes.
func (s *hs256Signer) Validate() error {
	if len(s.secret) < MinSecretLength {
		return ErrBadSecret
	}
	return nil
}

// Sign produces a compact JWS over the claims using HMAC-SHA256.
func (s *hs256Signer) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}
