package sizer

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestSizer(t *testing.T) *Sizer {
	t.Helper()

	s, err := New(decimal.NewFromInt(5), decimal.NewFromInt(40))
	require.NoError(t, err)

	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := New(decimal.Zero, decimal.NewFromInt(40))
	require.Error(t, err)

	_, err = New(decimal.NewFromInt(40), decimal.NewFromInt(5))
	require.Error(t, err)
}

func TestSize_ExactBoundaries(t *testing.T) {
	s := newTestSizer(t)

	// the sigmoid only approaches the bounds asymptotically; the boundary
	// scores must return them exactly
	require.True(t, s.Size(decimal.Zero).Equal(decimal.NewFromInt(5)))
	require.True(t, s.Size(decimal.NewFromInt(1)).Equal(decimal.NewFromInt(40)))
}

func TestSize_WithinBoundsForAllScores(t *testing.T) {
	s := newTestSizer(t)

	for i := 0; i <= 100; i++ {
		score := decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(100))
		amount := s.Size(score)
		require.True(t, amount.GreaterThanOrEqual(decimal.NewFromInt(5)),
			"score %s sized %s below minimum", score.String(), amount.String())
		require.True(t, amount.LessThanOrEqual(decimal.NewFromInt(40)),
			"score %s sized %s above maximum", score.String(), amount.String())
	}
}

func TestSize_Monotonic(t *testing.T) {
	s := newTestSizer(t)

	prev := decimal.Zero
	for i := 0; i <= 100; i++ {
		score := decimal.NewFromInt(int64(i)).Div(decimal.NewFromInt(100))
		amount := s.Size(score)
		require.True(t, amount.GreaterThanOrEqual(prev),
			"sizing must not decrease with score, got %s after %s", amount.String(), prev.String())
		prev = amount
	}
}

func TestSize_MatchesFormula(t *testing.T) {
	s := newTestSizer(t)

	tests := []struct {
		score string
	}{
		{"0.49"},
		{"0.5"},
		{"0.25"},
		{"0.75"},
	}

	for _, tc := range tests {
		t.Run(tc.score, func(t *testing.T) {
			score := decimal.RequireFromString(tc.score)
			v, _ := score.Float64()
			sigmoid := 1 / (1 + math.Exp(-10*(v-0.5)))
			want := decimal.NewFromInt(5).
				Add(decimal.NewFromInt(35).Mul(decimal.NewFromFloat(sigmoid))).
				Round(2)

			got := s.Size(score)
			require.True(t, got.Equal(want), "want %s, got %s", want.String(), got.String())
		})
	}
}

func TestSize_MidpointIsHalfway(t *testing.T) {
	s := newTestSizer(t)

	// sigmoid(0) = 0.5, so a fair price sizes to the exact middle
	got := s.Size(decimal.RequireFromString("0.5"))
	require.True(t, got.Equal(decimal.RequireFromString("22.5")), "got %s", got.String())
}
