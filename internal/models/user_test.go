package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoinBalanceApply_NeverNegative(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		deltas []int
		want   int
	}{
		{name: "simple credit", start: 0, deltas: []int{10}, want: 10},
		{name: "debit within balance", start: 10, deltas: []int{-4}, want: 6},
		{name: "debit past zero clamps", start: 5, deltas: []int{-50}, want: 0},
		{name: "clamp then credit", start: 3, deltas: []int{-100, 7}, want: 7},
		{name: "alternating", start: 0, deltas: []int{-5, 12, -3, -20, 4}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance := CoinBalance{Coins: tt.start}
			for _, delta := range tt.deltas {
				balance.Apply(delta)
				assert.GreaterOrEqual(t, balance.Coins, 0)
			}
			assert.Equal(t, tt.want, balance.Coins)
		})
	}
}
