package domain

// AccessToken is what a successful login returns: the signed bearer token
// plus enough metadata for the client to know when to re-authenticate.
type AccessToken struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"` // always "Bearer"
	ExpiresIn int64  `json:"expires_in"` // seconds until expiry
}
