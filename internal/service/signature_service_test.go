package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignVerify(t *testing.T) {
	svc := NewHMACSignatureService()

	payload := svc.BuildCanonicalString("POST", "/api/v1/rounds/1/investments", 1756400000, "nonce-abc", `{"amount":60}`)
	sig := svc.Sign("sk_secret", payload)

	assert.Len(t, sig, 64) // SHA-256 hex
	assert.True(t, svc.Verify("sk_secret", payload, sig))
	assert.False(t, svc.Verify("sk_other", payload, sig))
	assert.False(t, svc.Verify("sk_secret", payload+"x", sig))
}

func TestHMACSignatureService_Deterministic(t *testing.T) {
	svc := NewHMACSignatureService()

	s1 := svc.Sign("sk_secret", "payload")
	s2 := svc.Sign("sk_secret", "payload")
	assert.Equal(t, s1, s2)
}

func TestHMACSignatureService_CanonicalString(t *testing.T) {
	svc := NewHMACSignatureService()

	got := svc.BuildCanonicalString("GET", "/api/v1/rounds/7", 1756400123, "n1", "")
	assert.Equal(t, "GET|/api/v1/rounds/7|1756400123|n1|", got)
}
