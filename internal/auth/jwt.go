package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSecret string

func InitJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT secret is empty")
	}
	jwtSecret = secret
	return nil
}

// GenerateJWT issues a signed token for the user and returns it with the
// token id. The id is persisted server-side so the token can be revoked.
func GenerateJWT(userID uint, email string) (string, string, error) {
	tokenID := uuid.NewString()

	claims := jwt.MapClaims{
		"jti":     tokenID,
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 168).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", err
	}

	return signed, tokenID, nil
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	return token, nil
}

// ParseClaims extracts the user id and token id from a verified token.
func ParseClaims(token *jwt.Token) (uint, string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid user id in token claims")
	}

	tokenID, ok := claims["jti"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid token id in token claims")
	}

	return uint(userIDFloat), tokenID, nil
}
