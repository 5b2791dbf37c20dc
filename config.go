package accounts

var _ Config = SimpleConfig{}

// SimpleConfig is a plain-struct Config implementation for embedding
// applications that do not bring their own configuration container.
type SimpleConfig struct {
	SigningKey      string
	Issuer          string
	Audience        []string
	TokenExpiration int
	AutoActivate    bool
}

func (c SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c SimpleConfig) GetAudience() []string {
	return c.Audience
}

// GetTokenExpiration returns the session lifetime in hours, defaulting
// to 72
func (c SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 72
	}
	return c.TokenExpiration
}

func (c SimpleConfig) GetAutoActivate() bool {
	return c.AutoActivate
}
