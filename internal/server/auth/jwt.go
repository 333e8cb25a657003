// Package auth issues and verifies the signed tokens used by the server and
// hashes user secrets.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// UnlockAudience marks tokens that grant access to the locked partition.
const UnlockAudience = "locked"

// Claims carries the standard claims and the user id. PinStamp is set on
// unlock grants only and ties the grant to the PIN it was issued for.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string
	PinStamp string `json:"pin_stamp,omitempty"`
}

// GenerateToken returns a session token for userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	}, secretKey)
}

// GetUserIDFromToken validates a session token and returns its user id.
// Unlock grants are not accepted as session tokens.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	for _, aud := range claims.Audience {
		if aud == UnlockAudience {
			return "", common.ErrInvalidToken
		}
	}
	if claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// GenerateUnlockGrant returns a short-lived grant for the locked partition
// and its expiry. pinStamp is the PinStamp of the PIN that was verified.
func GenerateUnlockGrant(userID, pinStamp string, secretKey []byte, validityDuration time.Duration) (string, time.Time, error) {
	expires := time.Now().Add(validityDuration).Truncate(time.Second)
	token, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{UnlockAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		PinStamp: pinStamp,
	}, secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires.UTC(), nil
}

// VerifyUnlockGrant checks that tokenString is a valid unlock grant issued
// to userID for the PIN whose stamp is pinStamp. A grant issued before the
// PIN was changed or cleared no longer matches.
func VerifyUnlockGrant(tokenString, userID, pinStamp string, secretKey []byte) error {
	claims, err := parse(tokenString, secretKey, jwt.WithAudience(UnlockAudience))
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return common.ErrInvalidToken
	}
	if pinStamp == "" || !hmac.Equal([]byte(claims.PinStamp), []byte(pinStamp)) {
		return common.ErrInvalidToken
	}
	return nil
}

// PinStamp fingerprints a stored PIN hash. bcrypt salts every hash, so
// setting the PIN again, even to the same digits, yields a new stamp. No PIN
// has no stamp.
func PinStamp(pinHash string, secretKey []byte) string {
	if pinHash == "" {
		return ""
	}
	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(pinHash))
	return hex.EncodeToString(mac.Sum(nil)[:16])
}

func sign(claims Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func parse(tokenString string, secretKey []byte, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
