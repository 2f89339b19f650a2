package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks the callback signature binding an order id and a
// gateway payment id. The gateway signs hex(HMAC-SHA256(orderID|paymentID))
// with the shared key secret.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}

	expected := SignPayload(orderID, paymentID, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// SignPayload computes the expected callback signature. Exposed for tests
// and for the sandbox gateway stub.
func SignPayload(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
