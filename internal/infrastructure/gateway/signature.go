package gateway

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SignHMACMD5 returns hex(HMAC-MD5(secret, fields joined with ";")).
// This is the WayForPay signature scheme; the field order is fixed by
// the provider and must never be reordered.
func SignHMACMD5(secret string, fields []string) string {
	mac := hmac.New(md5.New, []byte(secret))
	mac.Write([]byte(strings.Join(fields, ";")))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignSHA1 returns hex(SHA-1(secret + "|" + fields joined with "|")).
// This is the Fondy signature scheme.
func SignSHA1(secret string, fields []string) string {
	sum := sha1.Sum([]byte(secret + "|" + strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

// SignaturesEqual compares two hex signatures case-insensitively
// without short-circuiting on content. A length mismatch still returns
// early; that leaks only the signature length, which the provider
// publishes anyway.
func SignaturesEqual(got, want string) bool {
	a := []byte(strings.ToLower(got))
	b := []byte(strings.ToLower(want))
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
