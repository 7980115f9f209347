package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("100")
	assert.NoError(t, err)
	assert.Equal(t, "100", d.String())

	// arbitrary precision survives the round trip
	d, err = ParseAmount("123456789012345678901234567890.000001")
	assert.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890.000001", d.String())

	_, err = ParseAmount("-5")
	assert.Error(t, err)

	_, err = ParseAmount("not-a-number")
	assert.Error(t, err)
}

func TestRandTxHash(t *testing.T) {
	h := RandTxHash()
	assert.Len(t, h, 64)
	assert.NotEqual(t, h, RandTxHash())
}
