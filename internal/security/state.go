package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DeriveStateKey derives an HMAC key from the app secret for OAuth state signing
func DeriveStateKey(appSecret string) []byte {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte("nabulines:oauth:state:v1"))
	return mac.Sum(nil)
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}

// SignState creates a signed state value with format: payload.timestamp.signature
func SignState(payload string, secret []byte) (string, error) {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	// Signature: HMAC(payload|timestamp)
	data := fmt.Sprintf("%s|%s", payload, timestamp)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	signature := hex.EncodeToString(mac.Sum(nil))

	encoded := fmt.Sprintf("%s.%s.%s",
		base64.RawURLEncoding.EncodeToString([]byte(payload)),
		timestamp,
		signature)

	return encoded, nil
}

// ValidateState validates a signed state value and returns the payload
func ValidateState(signed string, secret []byte, maxAge time.Duration) (string, error) {
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid state format")
	}

	encodedPayload := parts[0]
	timestamp := parts[1]
	signature := parts[2]

	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return "", fmt.Errorf("invalid payload encoding: %w", err)
	}

	var ts int64
	_, err = fmt.Sscanf(timestamp, "%d", &ts)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp: %w", err)
	}

	if time.Since(time.Unix(ts, 0)) > maxAge {
		return "", fmt.Errorf("state expired")
	}

	data := fmt.Sprintf("%s|%s", string(payload), timestamp)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return "", fmt.Errorf("signature verification failed")
	}

	return string(payload), nil
}
