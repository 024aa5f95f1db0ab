package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"storefront-backend/internal/domain"
)

// Claims carried by the identity provider's token. The role claim is the only
// source of privilege, missing means plain shopper.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return Verifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token into an Identity. Any parse or
// validation failure maps to domain.ErrNotAuthenticated.
func (v Verifier) Verify(tokenStr string) (domain.Identity, error) {
	var id domain.Identity

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return id, fmt.Errorf("jwt.ParseWithClaims: %v: %w", err, domain.ErrNotAuthenticated)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return id, fmt.Errorf("invalid token: %w", domain.ErrNotAuthenticated)
	}

	if claims.Subject == "" {
		return id, fmt.Errorf("token subject is empty: %w", domain.ErrNotAuthenticated)
	}

	role := domain.RoleShopper
	if claims.Role != "" {
		parsed, err := domain.ToRole(claims.Role)
		if err != nil {
			return id, fmt.Errorf("role[%s]: %v: %w", claims.Role, err, domain.ErrNotAuthenticated)
		}
		role = parsed
	}

	return domain.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
	}, nil
}

// Sign mints a token the way the identity provider would. Used by the local
// token generator and tests.
func Sign(secret, subject, email string, role domain.Role, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		Role:  string(role),
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}
