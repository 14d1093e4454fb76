package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignHMACMD5_KnownVector(t *testing.T) {
	// provider documentation example fields
	got := SignHMACMD5("flk3409refn54t54t*FNJRET", []string{
		"test_merch_n1",
		"www.market.ua",
		"DH783023",
		"1415379863",
		"1547.36",
		"UAH",
		"Процессор Intel Core i5-4670 3.4GHz",
		"1",
		"1547.36",
	})
	assert.Equal(t, "619b1d835b7a12c1d304707623d1b955", got)
}

func TestSignSHA1_KnownVector(t *testing.T) {
	got := SignSHA1("test", []string{"1396424", "ORDER_42", "29900", "UAH"})
	assert.Equal(t, "35ac5a00fef5fe57409a54afec3d510fbf35aeac", got)
}

func TestSignaturesEqual(t *testing.T) {
	assert.True(t, SignaturesEqual("ABCDEF01", "abcdef01"), "hex compare is case-insensitive")
	assert.False(t, SignaturesEqual("abcdef01", "abcdef02"))
	assert.False(t, SignaturesEqual("abc", "abcdef01"))
	assert.False(t, SignaturesEqual("", "abcdef01"))
}

func TestOrderIDFromReference(t *testing.T) {
	id, err := OrderIDFromReference("DLL_42_1700000000")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = OrderIDFromReference("ORDER_7")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = OrderIDFromReference("garbage")
	assert.Error(t, err)

	_, err = OrderIDFromReference("DLL_x_1700000000")
	assert.Error(t, err)

	_, err = OrderIDFromReference("DLL_0_1700000000")
	assert.Error(t, err)
}

func TestAmountFormatting(t *testing.T) {
	assert.Equal(t, "299.00", formatMinorAmount(29900))
	assert.Equal(t, "15.47", formatMinorAmount(1547))
	assert.Equal(t, "0.05", formatMinorAmount(5))

	minor, err := parseMinorAmount("299.00")
	assert.NoError(t, err)
	assert.Equal(t, int64(29900), minor)

	minor, err = parseMinorAmount("1547.36")
	assert.NoError(t, err)
	assert.Equal(t, int64(154736), minor)

	_, err = parseMinorAmount("not-a-number")
	assert.Error(t, err)
}
