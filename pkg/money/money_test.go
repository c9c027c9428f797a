package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("10000.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("10000.5")))

	_, err = Parse("abc")
	assert.Error(t, err)

	_, err = Parse("-1")
	assert.Error(t, err)
}

func TestRoundIsBankers(t *testing.T) {
	assert.Equal(t, "0.12", Round(decimal.RequireFromString("0.125")).StringFixed(2))
	assert.Equal(t, "0.14", Round(decimal.RequireFromString("0.135")).StringFixed(2))
}

func TestSum(t *testing.T) {
	total := Sum(decimal.NewFromInt(10000), decimal.NewFromInt(10000), decimal.NewFromInt(10000))
	assert.True(t, total.Equal(decimal.NewFromInt(30000)))
	assert.True(t, Sum().IsZero())
}
