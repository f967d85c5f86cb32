package scope

// Manager verifies and mints caller tokens. Safe for concurrent use.
type Manager interface {
	Verify(token string) (Payload, error)
	CreateToken(payload Payload) (string, error)
}

// New panics on an empty secret; config validation rejects that earlier.
func New(secretKey string) Manager {
	if secretKey == "" {
		panic("scope: secret key cannot be empty")
	}
	return &implManager{secretKey: []byte(secretKey)}
}
