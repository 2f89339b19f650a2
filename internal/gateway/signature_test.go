package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	secret := "test-secret"
	sig := SignPayload("order_abc", "pay_xyz", secret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, secret))
}

func TestVerifySignature_Tampered(t *testing.T) {
	secret := "test-secret"
	sig := SignPayload("order_abc", "pay_xyz", secret)

	assert.False(t, VerifySignature("order_abc", "pay_other", sig, secret))
	assert.False(t, VerifySignature("order_other", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig+"00", secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "wrong-secret"))
}

func TestVerifySignature_EmptyInputs(t *testing.T) {
	secret := "test-secret"
	sig := SignPayload("order_abc", "pay_xyz", secret)

	assert.False(t, VerifySignature("", "pay_xyz", sig, secret))
	assert.False(t, VerifySignature("order_abc", "", sig, secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", secret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, ""))
}
