package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{950, "BDT", "950 BDT"},
		{1500, "BDT", "1,500 BDT"},
		{1234567, "USD", "1,234,567 USD"},
		{0, "BDT", "0 BDT"},
		{499.99, "BDT", "499 BDT"},
		{1000, "", "1,000 BDT"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.currency))
	}
}
