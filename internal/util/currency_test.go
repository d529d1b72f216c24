package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"1234.56", "₹1,234.56"},
		{"1234567.891", "₹1,234,567.89"},
		{"0.005", "₹0.01"},
		{"-500", "-₹500.00"},
	}

	for _, tt := range tests {
		got := FormatCurrency(decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	if got := ToMinorUnits(decimal.RequireFromString("12.345")); got != 1235 {
		t.Errorf("ToMinorUnits(12.345) = %d, want 1235", got)
	}
}
