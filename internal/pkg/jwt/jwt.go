package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the JWT claims for an authenticated session
type Claims struct {
	Account     string `json:"account"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	WindowEnd   string `json:"window_end"` // YYYY-MM-DD, end of the credential validity window
	jwt.RegisteredClaims
}

// GenerateAccessToken generates a new access token. The expiry is the earlier
// of now+expiryMinutes and notAfter, so a session never outlives the
// credential validity window it was issued under.
func GenerateAccessToken(account, displayName, role, windowEnd, secret string, expiryMinutes int, notAfter time.Time) (string, error) {
	expiresAt := time.Now().Add(time.Duration(expiryMinutes) * time.Minute)
	if notAfter.Before(expiresAt) {
		expiresAt = notAfter
	}

	claims := Claims{
		Account:     account,
		DisplayName: displayName,
		Role:        role,
		WindowEnd:   windowEnd,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "insurtech-portal",
			Subject:   account,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
