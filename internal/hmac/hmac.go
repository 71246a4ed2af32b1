package hmac

import (
	cryptoHMAC "crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
)

// HMAC signs thumbor request paths
type HMAC struct {
	Key []byte
}

// New returns a HMAC for the given secret key, or nil if the key is empty
func New(key string) *HMAC {
	if key == "" {
		return nil
	}

	return &HMAC{
		Key: []byte(key),
	}
}

// Enabled reports whether the HMAC has a key to sign with
func (h *HMAC) Enabled() bool {
	return h != nil && len(h.Key) > 0
}

// Create creates a HMAC-SHA1 of the message, base64 encoded with the urlsafe alphabet
// The padding is kept, as thumbor expects it to be part of the signature
func (h *HMAC) Create(message string) (string, error) {
	mac := cryptoHMAC.New(sha1.New, h.Key)

	_, err := mac.Write([]byte(message))
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Validate validates that the message matches a given HMAC
func (h *HMAC) Validate(message, mac string) (bool, error) {
	expectedMAC, err := h.Create(message)
	if err != nil {
		return false, err
	}

	return cryptoHMAC.Equal([]byte(mac), []byte(expectedMAC)), nil
}
