package auth

import (
	"github.com/golang-jwt/jwt/v4"

	"carelink/internal/domain/entity"
	"carelink/pkg/errors"
)

// Claims is the payload this service expects inside a bearer credential. The
// subject carries the principal id; role tells the service which side of the
// appointment the principal is on.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates bearer credentials against a shared signing secret. It
// is stateless; REST and realtime use the same instance.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks the credential's signature and expiry and yields the
// principal it identifies. Every failure is reported as Unauthorized.
func (v *Verifier) Verify(credential string) (entity.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Principal{}, errors.Unauthorized("Invalid or expired token", err)
	}

	if !token.Valid || claims.Subject == "" {
		return entity.Principal{}, errors.Unauthorized("Invalid token claims", nil)
	}

	return entity.Principal{
		ID:   claims.Subject,
		Role: entity.Role(claims.Role),
	}, nil
}
