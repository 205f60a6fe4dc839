package indicators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func toDecimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestSMA(t *testing.T) {
	series, err := SMA(toDecimals("1", "2", "3", "4"), 2)
	require.NoError(t, err)
	require.Len(t, series, 3)
	require.True(t, series[0].Equal(decimal.RequireFromString("1.5")), "got %s", series[0].String())
	require.True(t, series[1].Equal(decimal.RequireFromString("2.5")), "got %s", series[1].String())
	require.True(t, series[2].Equal(decimal.RequireFromString("3.5")), "got %s", series[2].String())
}

func TestSMA_NotEnoughData(t *testing.T) {
	_, err := SMA(toDecimals("1", "2"), 3)
	require.Error(t, err)

	_, err = SMA(toDecimals("1", "2"), 0)
	require.Error(t, err)
}

func TestTrailingAverage(t *testing.T) {
	avg, err := TrailingAverage(toDecimals("10", "20", "30", "40"), 4)
	require.NoError(t, err)
	require.True(t, avg.Equal(decimal.NewFromInt(25)), "got %s", avg.String())
}

func TestTrailingAverage_UsesLastWindow(t *testing.T) {
	// only the final window matters for the trailing value
	avg, err := TrailingAverage(toDecimals("1000", "10", "20", "30"), 3)
	require.NoError(t, err)
	require.True(t, avg.Equal(decimal.NewFromInt(20)), "got %s", avg.String())
}
