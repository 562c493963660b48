package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyPayload(t *testing.T) {
	data := []byte(`[{"metric_name":"FCP","metric_value":1200}]`)

	sig := SignPayload(data, "secret")
	assert.NotEmpty(t, sig)
	assert.True(t, VerifyPayload(data, "secret", sig))

	t.Run("wrong key", func(t *testing.T) {
		assert.False(t, VerifyPayload(data, "other", sig))
	})

	t.Run("tampered payload", func(t *testing.T) {
		assert.False(t, VerifyPayload([]byte("tampered"), "secret", sig))
	})

	t.Run("malformed signature", func(t *testing.T) {
		assert.False(t, VerifyPayload(data, "secret", "not-hex"))
	})
}
