package xsched

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"post.published","data":{"id":"post_1"}}`)
	sig := sign(payload, "whsec_1")

	if !VerifyWebhookSignature(payload, sig, "whsec_1") {
		t.Fatalf("valid signature rejected")
	}
	if !VerifyWebhookSignature(payload, "sha256="+sig, "whsec_1") {
		t.Fatalf("prefixed signature rejected")
	}
	if VerifyWebhookSignature(payload, sig, "whsec_2") {
		t.Fatalf("signature accepted with wrong secret")
	}
	if VerifyWebhookSignature(append(payload, ' '), sig, "whsec_1") {
		t.Fatalf("signature accepted for modified payload")
	}
	if VerifyWebhookSignature(payload, "zz", "whsec_1") {
		t.Fatalf("malformed signature accepted")
	}
	if VerifyWebhookSignature(payload, sig, "") {
		t.Fatalf("empty secret accepted")
	}
}
