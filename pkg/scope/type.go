package scope

import "github.com/golang-jwt/jwt/v5"

// Payload is the claim set issued by the identity provider.
type Payload struct {
	jwt.RegisteredClaims
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Area     string `json:"area"`
}

type implManager struct {
	secretKey []byte
}

type (
	PayloadCtxKey struct{}
	ScopeCtxKey   struct{}
)
