package scope

import (
	"context"
	"fmt"
	"time"

	"alert-srv/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func (m *implManager) Verify(token string) (Payload, error) {
	if token == "" {
		return Payload{}, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	var payload Payload
	parsed, err := jwt.ParseWithClaims(token, &payload, func(t *jwt.Token) (any, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Payload{}, fmt.Errorf("%w: token is not valid", ErrInvalidToken)
	}
	if payload.UserID == "" {
		return Payload{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return payload, nil
}

func (m *implManager) CreateToken(payload Payload) (string, error) {
	now := time.Now()
	payload.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpirationDuration)),
		ID:        uuid.NewString(),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(m.secretKey)
}

// NewScope builds the caller scope carried by payload.
func NewScope(payload Payload) model.Scope {
	return model.Scope{
		UserID:   payload.UserID,
		Username: payload.Username,
		Role:     payload.Role,
		Area:     model.Area(payload.Area),
		JTI:      payload.ID,
	}
}

func SetPayloadToContext(ctx context.Context, payload Payload) context.Context {
	return context.WithValue(ctx, PayloadCtxKey{}, payload)
}

func GetPayloadFromContext(ctx context.Context) (Payload, bool) {
	payload, ok := ctx.Value(PayloadCtxKey{}).(Payload)
	return payload, ok
}

func SetScopeToContext(ctx context.Context, sc model.Scope) context.Context {
	return context.WithValue(ctx, ScopeCtxKey{}, sc)
}

func GetScopeFromContext(ctx context.Context) (model.Scope, bool) {
	sc, ok := ctx.Value(ScopeCtxKey{}).(model.Scope)
	return sc, ok
}
