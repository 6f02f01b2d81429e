// Package auth implements local account registration, login and logout
// backed by signed JWT access tokens.
package auth

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// Issuer is the iss claim of every access token.
const Issuer = "Yardly"

// AccessTokenTTL is how long an access token stays valid.
const AccessTokenTTL = time.Hour

const devSecret = "yardly-insecure-dev-secret"

var secretKey = loadSecretKey()

func loadSecretKey() []byte {
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		log.Println("SECRET_KEY not set, using insecure development secret")
		key = devSecret
	}
	return []byte(key)
}

// GenerateStandardToken signs an access token whose subject is the user id.
func GenerateStandardToken(userID uuid.UUID) (string, error) {
	return GenerateTokenWithDuration(userID, AccessTokenTTL, Issuer)
}

// GenerateTokenWithDuration signs a token for userID that expires after ttl.
// A negative ttl yields a token that is already expired.
func GenerateTokenWithDuration(userID uuid.UUID, ttl time.Duration, issuer string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signedToken, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %w", err)
	}
	return signedToken, nil
}

// ValidatedToken parses encodeToken and checks its signature, expiry and issuer.
// The returned token carries *jwt.RegisteredClaims.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !claims.VerifyIssuer(Issuer, true) {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	return token, nil
}
