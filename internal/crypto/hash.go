package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayload computes an HMAC-SHA256 of data under key, hex encoded.
// Beacon batches carry this in the HashSHA256 header so the ingest
// endpoint can reject tampered payloads.
func SignPayload(data []byte, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPayload reports whether signature matches the HMAC-SHA256 of
// data under key. Comparison is constant-time.
func VerifyPayload(data []byte, key, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(key))
	h.Write(data)
	return hmac.Equal(h.Sum(nil), want)
}
