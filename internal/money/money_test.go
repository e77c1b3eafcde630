package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorRoundTrip(t *testing.T) {
	amount := FromMinor(12345)
	assert.Equal(t, "123.45", amount.StringFixed(2))

	minor, err := ToMinor(amount)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), minor)
}

func TestToMinorRejectsExtraPrecision(t *testing.T) {
	_, err := ToMinor(decimal.RequireFromString("1.005"))
	assert.Error(t, err)

	_, err = ToMinor(decimal.RequireFromString("-1.00"))
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	assert.Nil(t, Average(decimal.NewFromInt(10), 0))

	avg := Average(decimal.RequireFromString("300.00"), 2)
	require.NotNil(t, avg)
	assert.Equal(t, "150.00", avg.StringFixed(2))

	avg = Average(decimal.RequireFromString("10.00"), 3)
	require.NotNil(t, avg)
	assert.Equal(t, "3.33", avg.StringFixed(2))
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name string
		prev string
		cur  string
		want string
	}{
		{"increase", "100", "150", "50"},
		{"drop to zero", "150", "0", "-100"},
		{"rounded", "3", "4", "33.33"},
		{"decrease", "200", "150", "-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(decimal.RequireFromString(tt.prev), decimal.RequireFromString(tt.cur))
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	assert.Nil(t, PercentChange(decimal.Zero, decimal.NewFromInt(10)))
	assert.Nil(t, PercentChange(decimal.Zero, decimal.Zero))
}

func TestFloatPtr(t *testing.T) {
	assert.Nil(t, FloatPtr(nil))
	d := decimal.RequireFromString("99.99")
	f := FloatPtr(&d)
	require.NotNil(t, f)
	assert.Equal(t, 99.99, *f)
}
