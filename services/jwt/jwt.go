package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
)

// GenerateTokenPair returns a signed access and refresh token for the user.
func GenerateTokenPair(email string, secret string, isAdmin bool, userID uint) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"user_email": email,
		"user_id":    userID,
		"is_admin":   isAdmin,
		"exp":        time.Now().Add(AccessTokenValidity).Unix(),
		"type":       "access",
	}
	accessToken, err := generateToken(accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"user_email": email,
		"user_id":    userID,
		"exp":        time.Now().Add(RefreshTokenValidity).Unix(),
		"type":       "refresh",
	}
	refreshToken, err := generateToken(refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func generateToken(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "could not sign token")
	}
	return tokenString, nil
}

// ValidateAndGetClaims parses the token string and returns its claims.
func ValidateAndGetClaims(tokenString string, secret string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GenerateResetToken returns a short-lived token used in password reset links.
func GenerateResetToken(email string, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_email": email,
		"exp":        time.Now().Add(time.Minute * 30).Unix(),
		"type":       "reset",
	}
	return generateToken(claims, secret)
}
