// Package sizer maps a value score to a USD purchase amount.
package sizer

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Fixed shape of the sigmoid allocation curve: sizes stay conservative near a
// fair price and only approach the maximum for strongly favorable scores.
const (
	sigmoidSteepness = 10
	sigmoidMidpoint  = 0.5
)

// Sizer computes the purchase amount for a value score. Pure; no failure
// modes.
type Sizer struct {
	min decimal.Decimal
	max decimal.Decimal
}

// New returns a sizer bounded by the given USD amounts.
func New(min, max decimal.Decimal) (*Sizer, error) {
	if min.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("min purchase amount must be positive, got %s", min.String())
	}
	if max.LessThan(min) {
		return nil, fmt.Errorf("max purchase amount %s must not be below min %s", max.String(), min.String())
	}
	return &Sizer{min: min, max: max}, nil
}

// Size returns the USD amount to spend for a score in [0,1], rounded to
// cents. The boundary scores return the exact bounds; the sigmoid only
// approaches them asymptotically, so they are shortcut explicitly.
func (s *Sizer) Size(score decimal.Decimal) decimal.Decimal {
	if score.LessThanOrEqual(decimal.Zero) {
		return s.min
	}
	if score.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return s.max
	}

	v, _ := score.Float64()
	sigmoid := 1 / (1 + math.Exp(-sigmoidSteepness*(v-sigmoidMidpoint)))

	return s.min.
		Add(s.max.Sub(s.min).Mul(decimal.NewFromFloat(sigmoid))).
		Round(2)
}
