package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func candleAt(ts int64, close string) Candle {
	return Candle{
		Close: decimal.RequireFromString(close),
		Time:  time.Unix(ts, 0),
	}
}

func TestTrailingCloses_OrientsByTimestamp(t *testing.T) {
	newestFirst := []Candle{
		candleAt(400, "104"),
		candleAt(300, "103"),
		candleAt(200, "102"),
		candleAt(100, "101"),
	}
	oldestFirst := []Candle{
		candleAt(100, "101"),
		candleAt(200, "102"),
		candleAt(300, "103"),
		candleAt(400, "104"),
	}

	want := []string{"103", "104"}

	for _, candles := range [][]Candle{newestFirst, oldestFirst} {
		closes, err := TrailingCloses(candles, 2)
		require.NoError(t, err)
		require.Len(t, closes, 2)
		for i, w := range want {
			require.True(t, closes[i].Equal(decimal.RequireFromString(w)),
				"close %d: want %s, got %s", i, w, closes[i].String())
		}
	}
}

func TestTrailingCloses_DoesNotMutateInput(t *testing.T) {
	candles := []Candle{
		candleAt(300, "103"),
		candleAt(100, "101"),
		candleAt(200, "102"),
	}

	_, err := TrailingCloses(candles, 3)
	require.NoError(t, err)

	require.Equal(t, int64(300), candles[0].Time.Unix())
	require.Equal(t, int64(100), candles[1].Time.Unix())
}

func TestTrailingCloses_NotEnoughCandles(t *testing.T) {
	candles := []Candle{candleAt(100, "101")}

	_, err := TrailingCloses(candles, 2)
	require.Error(t, err)
}

func TestTrailingCloses_InvalidWindow(t *testing.T) {
	_, err := TrailingCloses(nil, 0)
	require.Error(t, err)
}
