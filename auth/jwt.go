package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret []byte

// TokenTTL is how long an access token stays valid.
const TokenTTL = 3 * 24 * time.Hour

// SetSecret installs the HMAC key used to sign and verify tokens.
func SetSecret(s string) {
	secret = []byte(s)
}

func GenerateJWT(userID uint64, tokenVersion int) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       userID,
		"token_version": tokenVersion,
		"exp":           time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	jwtToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !jwtToken.Valid {
		return nil, errors.New("token invalid")
	}

	return jwtToken, nil
}

// GetDataFromToken extracts the user id and token version claims.
func GetDataFromToken(token *jwt.Token) (uint64, int, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, errors.New("unexpected claims type")
	}
	// numeric claims decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, errors.New("user_id claim missing")
	}
	version, _ := claims["token_version"].(float64)
	return uint64(id), int(version), nil
}
